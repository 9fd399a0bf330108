package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooManyAnswers = errors.New("more answers than questions")
	ErrUnknownAnswer  = errors.New("answer is not one of the options")
)

// DefaultKey names the result used when no answer combination matches.
const DefaultKey = "default"

type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type Result struct {
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// Progress is where a shopper stands after some answers: either the next
// question or, once all are answered, the recommendation.
type Progress struct {
	Step     int       `json:"step"`
	Total    int       `json:"total"`
	Question *Question `json:"question,omitempty"`
	Result   *Result   `json:"result,omitempty"`
}

// Quiz recommends a product from a fixed list of questions. Results are keyed
// by the answers joined with "-".
type Quiz struct {
	questions []Question
	results   map[string]Result
}

func New(questions []Question, results map[string]Result) (*Quiz, error) {
	if _, ok := results[DefaultKey]; !ok {
		return nil, fmt.Errorf("quiz needs a %q result", DefaultKey)
	}
	return &Quiz{questions: questions, results: results}, nil
}

func (q *Quiz) Questions() []Question {
	out := make([]Question, len(q.questions))
	copy(out, q.questions)
	return out
}

// Answer validates answers so far and returns the next question or the result.
func (q *Quiz) Answer(answers []string) (Progress, error) {
	if len(answers) > len(q.questions) {
		return Progress{}, fmt.Errorf("%w: %d answers for %d questions", ErrTooManyAnswers, len(answers), len(q.questions))
	}
	for i, a := range answers {
		if !contains(q.questions[i].Options, a) {
			return Progress{}, fmt.Errorf("%w: %q for question %d", ErrUnknownAnswer, a, i+1)
		}
	}

	p := Progress{Step: len(answers), Total: len(q.questions)}
	if len(answers) < len(q.questions) {
		next := q.questions[len(answers)]
		p.Question = &next
		return p, nil
	}
	r := q.Recommend(answers)
	p.Result = &r
	return p, nil
}

// Recommend looks up the joined answers, falling back to the default result.
func (q *Quiz) Recommend(answers []string) Result {
	if r, ok := q.results[strings.Join(answers, "-")]; ok {
		return r
	}
	return q.results[DefaultKey]
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

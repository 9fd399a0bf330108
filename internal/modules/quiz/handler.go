package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AnswerRequest struct {
	Answers []string `json:"answers"`
}

type Handler struct{ quiz *Quiz }

func NewHandler(q *Quiz) *Handler { return &Handler{quiz: q} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/quiz", func(r chi.Router) {
		r.Get("/", h.start)
		r.Post("/answers", h.answer)
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	p, _ := h.quiz.Answer(nil)
	respond(w, http.StatusOK, p)
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.quiz.Answer(req.Answers)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrTooManyAnswers) || errors.Is(err, ErrUnknownAnswer) {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package quiz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuiz(t *testing.T) *Quiz {
	t.Helper()
	results := map[string]Result{
		"Sweet & Rich-Special Celebration-Dense & Moist": {Name: "Custom Celebration Cake"},
	}
	results[DefaultKey] = Result{Name: "Chocolate Chip Cookies"}
	q, err := New([]Question{
		{Question: "Flavor?", Options: []string{"Sweet & Rich", "Light & Fruity"}},
		{Question: "Occasion?", Options: []string{"Everyday Treat", "Special Celebration"}},
		{Question: "Texture?", Options: []string{"Fluffy & Light", "Dense & Moist"}},
	}, results)
	require.NoError(t, err)
	return q
}

func TestQuiz_Progression(t *testing.T) {
	q := newQuiz(t)

	p, err := q.Answer(nil)
	require.NoError(t, err)
	require.NotNil(t, p.Question)
	assert.Equal(t, "Flavor?", p.Question.Question)
	assert.Equal(t, 3, p.Total)

	p, err = q.Answer([]string{"Sweet & Rich", "Special Celebration"})
	require.NoError(t, err)
	assert.Equal(t, "Texture?", p.Question.Question)
	assert.Nil(t, p.Result)

	p, err = q.Answer([]string{"Sweet & Rich", "Special Celebration", "Dense & Moist"})
	require.NoError(t, err)
	assert.Nil(t, p.Question)
	require.NotNil(t, p.Result)
	assert.Equal(t, "Custom Celebration Cake", p.Result.Name)
}

func TestQuiz_DefaultFallback(t *testing.T) {
	q := newQuiz(t)
	p, err := q.Answer([]string{"Light & Fruity", "Special Celebration", "Dense & Moist"})
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Chip Cookies", p.Result.Name)
}

func TestQuiz_Validation(t *testing.T) {
	q := newQuiz(t)

	_, err := q.Answer([]string{"Salty"})
	assert.ErrorIs(t, err, ErrUnknownAnswer)

	_, err = q.Answer([]string{"Sweet & Rich", "Everyday Treat", "Fluffy & Light", "Extra"})
	assert.ErrorIs(t, err, ErrTooManyAnswers)

	_, err = New(nil, map[string]Result{})
	assert.Error(t, err)
}

func TestHandler_Quiz(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(newQuiz(t)).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quiz/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quiz/answers",
		strings.NewReader(`{"answers":["Light & Fruity","Everyday Treat","Fluffy & Light"]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var p Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Chocolate Chip Cookies", p.Result.Name)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quiz/answers", strings.NewReader(`{"answers":["?"]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

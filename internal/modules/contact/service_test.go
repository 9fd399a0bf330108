package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSubmit_RecordsAndLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(NewMemoryRepository(), zap.New(core))

	res, err := svc.Submit(context.Background(), SubmitRequest{
		Name:    "Ann",
		Email:   "ann@example.com",
		Message: "Do you make gluten-free cakes?",
	})
	require.NoError(t, err)
	assert.Equal(t, SuccessMessage, res.Message)

	msgs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, res.ID, msgs[0].ID)

	entries := logs.FilterMessage("contact message received").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ann@example.com", entries[0].ContextMap()["email"])
}

func TestSubmit_Validation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	for name, req := range map[string]SubmitRequest{
		"no name":    {Email: "a@b.co", Message: "hi"},
		"no message": {Name: "A", Email: "a@b.co", Message: "  "},
		"bad email":  {Name: "A", Email: "ab.co", Message: "hi"},
	} {
		_, err := svc.Submit(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidMessage, name)
	}
}

func TestHandler_Submit(t *testing.T) {
	open := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	NewHandler(NewService(NewMemoryRepository(), nil), open).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contact/",
		strings.NewReader(`{"name":"Ann","email":"ann@example.com","message":"Hello"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contact/", strings.NewReader(`{"name":"Ann"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contact/messages", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello")
}

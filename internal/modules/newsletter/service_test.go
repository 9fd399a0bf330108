package newsletter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/bakery-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_IdempotentPerEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), 10*time.Second, nil)

	res, err := svc.Subscribe(ctx, "  Wendy@Example.com ")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, SuccessMessage, res.Message)

	res, err = svc.Subscribe(ctx, "wendy@example.com")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, SuccessMessage, res.Message)

	subs, err := svc.ListSubscribers(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "wendy@example.com", subs[0].Email)
}

func TestSubscribe_RejectsBadEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 0, nil)
	for _, email := range []string{"", "   ", "nobody", "Wendy <wendy@example.com>"} {
		_, err := svc.Subscribe(context.Background(), email)
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}
}

func TestPrompt_ShownOncePerSession(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), 10*time.Second, nil)

	p, err := svc.Prompt(ctx, "a")
	require.NoError(t, err)
	assert.True(t, p.Show)
	assert.Equal(t, int64(10000), p.DelayMS)

	p, err = svc.Prompt(ctx, "a")
	require.NoError(t, err)
	assert.False(t, p.Show)

	p, err = svc.Prompt(ctx, "b")
	require.NoError(t, err)
	assert.True(t, p.Show)

	_, err = svc.Prompt(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestHandler_Routes(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Second, nil)
	session := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSessionID(r.Context(), "s")))
		})
	}
	admin := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	r := chi.NewRouter()
	NewHandler(svc, session, admin).RegisterRoutes(r)

	call := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	assert.Equal(t, http.StatusCreated, call(http.MethodPost, "/api/v1/newsletter/subscribe", `{"email":"a@b.co"}`).Code)
	assert.Equal(t, http.StatusOK, call(http.MethodPost, "/api/v1/newsletter/subscribe", `{"email":"a@b.co"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(http.MethodPost, "/api/v1/newsletter/subscribe", `{"email":"x"}`).Code)

	rec := call(http.MethodGet, "/api/v1/newsletter/prompt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"show":true`)
	assert.Contains(t, call(http.MethodGet, "/api/v1/newsletter/prompt", "").Body.String(), `"show":false`)

	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/api/v1/newsletter/subscribers", "").Code)
}

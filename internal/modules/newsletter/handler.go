package newsletter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/bakery-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

// Handler serves the signup form publicly, the prompt per session and the
// subscriber list to admins.
type Handler struct {
	service Service
	session func(http.Handler) http.Handler
	admin   func(http.Handler) http.Handler
}

func NewHandler(service Service, session, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, session: session, admin: admin}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/newsletter", func(r chi.Router) {
		r.Post("/subscribe", h.subscribe)
		r.With(h.session).Get("/prompt", h.prompt)
		r.With(h.admin).Get("/subscribers", h.listSubscribers)
	})
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.service.Subscribe(r.Context(), req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	respond(w, status, res)
}

func (h *Handler) prompt(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Prompt(r.Context(), auth.SessionID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.ListSubscribers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, subs)
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidEmail):
		code = http.StatusBadRequest
	case errors.Is(err, ErrNoSession):
		code = http.StatusUnauthorized
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

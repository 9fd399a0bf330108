package customizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/bakery-backend/internal/modules/auth"
	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
	"github.com/go-chi/chi/v5"
)

// SelectRequest carries the chosen value for one step.
type SelectRequest struct {
	Value string `json:"value"`
}

type stateResponse struct {
	State
	Options Options `json:"options"`
}

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/customizer", func(r chi.Router) {
		r.Get("/", h.getState)
		r.Post("/open", h.open)
		r.Post("/close", h.close)
		r.Put("/size", h.selectStep(h.service.SelectSize))
		r.Put("/flavor", h.selectStep(h.service.SelectFlavor))
		r.Put("/frosting", h.selectStep(h.service.SelectFrosting))
		r.Post("/confirm", h.confirm)
	})
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.State(r.Context(), auth.SessionID(r.Context()))
	h.reply(w, st, err)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Open(r.Context(), auth.SessionID(r.Context()))
	h.reply(w, st, err)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Close(r.Context(), auth.SessionID(r.Context()))
	h.reply(w, st, err)
}

type selectFunc func(ctx context.Context, sessionID, value string) (State, error)

func (h *Handler) selectStep(fn selectFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		st, err := fn(r.Context(), auth.SessionID(r.Context()), req.Value)
		h.reply(w, st, err)
	}
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Confirm(r.Context(), auth.SessionID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, res)
}

func (h *Handler) reply(w http.ResponseWriter, st State, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, stateResponse{State: st, Options: h.service.Options()})
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNoSession):
		code = http.StatusUnauthorized
	case errors.Is(err, ErrUnknownOption):
		code = http.StatusBadRequest
	case errors.Is(err, ErrNotOpen), errors.Is(err, ErrStepNotReached):
		code = http.StatusConflict
	case errors.Is(err, ErrIncompleteSelection), errors.Is(err, cart.ErrInvalidPrice):
		code = http.StatusUnprocessableEntity
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

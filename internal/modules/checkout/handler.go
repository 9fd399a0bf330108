package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/bakery-backend/internal/modules/auth"
	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
	"github.com/georgemunganga/bakery-backend/internal/modules/order"
	"github.com/go-chi/chi/v5"
)

// FulfillmentRequest picks pickup or delivery.
type FulfillmentRequest struct {
	Fulfillment order.Fulfillment `json:"fulfillment"`
}

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Get("/", h.getSummary)
		r.Post("/open", h.open)
		r.Post("/close", h.close)
		r.Put("/fulfillment", h.setFulfillment)
		r.Post("/submit", h.submit)
	})
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Summary(r.Context(), auth.SessionID(r.Context()))
	reply(w, http.StatusOK, s, err)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Open(r.Context(), auth.SessionID(r.Context()))
	reply(w, http.StatusOK, s, err)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Close(r.Context(), auth.SessionID(r.Context()))
	reply(w, http.StatusOK, s, err)
}

func (h *Handler) setFulfillment(w http.ResponseWriter, r *http.Request) {
	var req FulfillmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s, err := h.service.SetFulfillment(r.Context(), auth.SessionID(r.Context()), req.Fulfillment)
	reply(w, http.StatusOK, s, err)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var c order.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	receipt, err := h.service.Submit(r.Context(), auth.SessionID(r.Context()), c)
	reply(w, http.StatusCreated, receipt, err)
}

func reply(w http.ResponseWriter, status int, body interface{}, err error) {
	if err == nil {
		respond(w, status, body)
		return
	}
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, cart.ErrNoSession):
		code = http.StatusUnauthorized
	case errors.Is(err, order.ErrInvalidCustomer):
		code = http.StatusBadRequest
	case errors.Is(err, ErrNotOpen):
		code = http.StatusConflict
	case errors.Is(err, ErrCartEmpty), errors.Is(err, order.ErrTotalsMismatch), errors.Is(err, order.ErrNoItems):
		code = http.StatusUnprocessableEntity
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

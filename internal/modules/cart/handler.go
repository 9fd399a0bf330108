package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/georgemunganga/bakery-backend/internal/modules/auth"
	"github.com/georgemunganga/bakery-backend/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
)

// BasePath is where the cart routes are mounted.
const BasePath = "/api/v1/cart"

// AddItemRequest adds either a catalog product by id, or a product described
// the way a page renders it (name plus price text or number).
type AddItemRequest struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Price     json.RawMessage `json:"price,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// Handler exposes the session cart. Routes expect auth.RequireSession upstream.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/", h.getCart)                      // GET    /api/v1/cart
		r.Delete("/", h.clearCart)                 // DELETE /api/v1/cart
		r.Post("/items", h.addItem)                // POST   /api/v1/cart/items
		r.Post("/items/{id}/increase", h.increase) // POST   /api/v1/cart/items/{id}/increase
		r.Post("/items/{id}/decrease", h.decrease) // POST   /api/v1/cart/items/{id}/decrease
		r.Delete("/items/{id}", h.remove)          // DELETE /api/v1/cart/items/{id}
		r.Post("/open", h.open)                    // POST   /api/v1/cart/open
		r.Post("/close", h.close)                  // POST   /api/v1/cart/close
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Panel(r.Context(), auth.SessionID(r.Context()))
	h.reply(w, http.StatusOK, p, err)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Clear(r.Context(), auth.SessionID(r.Context()))
	h.reply(w, http.StatusOK, p, err)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sid := auth.SessionID(r.Context())

	var p Panel
	var err error
	if req.ProductID != "" {
		p, err = h.service.AddProduct(r.Context(), sid, req.ProductID)
	} else {
		p, err = h.service.AddListing(r.Context(), sid, catalog.Listing{
			Name:     req.Name,
			Price:    priceText(req.Price),
			ImageURL: req.ImageURL,
		})
	}
	h.reply(w, http.StatusCreated, p, err)
}

func (h *Handler) increase(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.IncreaseQuantity(r.Context(), auth.SessionID(r.Context()), chi.URLParam(r, "id"))
	h.reply(w, http.StatusOK, p, err)
}

func (h *Handler) decrease(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.DecreaseQuantity(r.Context(), auth.SessionID(r.Context()), chi.URLParam(r, "id"))
	h.reply(w, http.StatusOK, p, err)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.RemoveItem(r.Context(), auth.SessionID(r.Context()), chi.URLParam(r, "id"))
	h.reply(w, http.StatusOK, p, err)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Open(r.Context(), auth.SessionID(r.Context()))
	h.reply(w, http.StatusOK, p, err)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Close(r.Context(), auth.SessionID(r.Context()))
	h.reply(w, http.StatusOK, p, err)
}

func (h *Handler) reply(w http.ResponseWriter, status int, p Panel, err error) {
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrNoSession):
			code = http.StatusUnauthorized
		case errors.Is(err, catalog.ErrProductNotFound):
			code = http.StatusNotFound
		case errors.Is(err, catalog.ErrInvalidPrice), errors.Is(err, ErrInvalidPrice):
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, status, p)
}

// priceText accepts a JSON number or string and returns its text.
func priceText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/feriavaleria/storefront/internal/cart"
)

// SessionHeader carries the shopper's cart session ID.
const SessionHeader = "X-Session-ID"

// CartHandler exposes the per-session shopping cart.
type CartHandler struct {
	store  *cart.Store
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *cart.Store, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		store:  store,
		logger: logger,
	}
}

// StartSession handles POST /api/cart/session
func (h *CartHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	sessionID := h.store.Start()
	h.logger.Info("cart session started", "session_id", sessionID)
	WriteJSON(w, http.StatusCreated, map[string]string{"sessionId": sessionID}, h.logger)
}

// EndSession handles DELETE /api/cart/session
func (h *CartHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "Session ID required", h.logger)
		return
	}
	h.store.End(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": c.List()}, h.logger)
}

type addItemRequest struct {
	ID int64 `json:"id"`
}

// AddItem handles POST /api/cart/items
// Adding a product already in the cart is a no-op.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	c.Add(req.ID)
	WriteJSON(w, http.StatusOK, map[string]any{"items": c.List()}, h.logger)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
// Removing a product not in the cart is a no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	c.Remove(id)
	WriteJSON(w, http.StatusOK, map[string]any{"items": c.List()}, h.logger)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	c.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the request's cart, writing the error response itself
// when the session header is missing or unknown.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "Session ID required", h.logger)
		return nil, false
	}

	c, err := h.store.Get(sessionID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Session not found", h.logger)
		return nil, false
	}
	return c, true
}

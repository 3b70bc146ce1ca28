package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/feriavaleria/storefront/internal/cart"
	"github.com/feriavaleria/storefront/internal/models"
	"github.com/feriavaleria/storefront/internal/service"
)

// OrderHandler handles order submission requests.
type OrderHandler struct {
	orderService *service.OrderService
	carts        *cart.Store
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, carts *cart.Store, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		carts:        carts,
		log:          log,
	}
}

// SubmitOrder handles POST /api/order
//
// Status mapping: 400 for structural and field validation, unknown
// products and total mismatch (no mutation happened); 409 when a
// product was sold in the meantime (nothing from this order was
// marked); 500 for store and notification failures.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.SubmitOrder(r.Context(), req)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	// A successful order empties the session cart so a refreshed page
	// starts clean; a missing session just means a stateless client.
	if sessionID := r.Header.Get(SessionHeader); sessionID != "" {
		if c, err := h.carts.Get(sessionID); err == nil {
			c.Clear()
		}
	}

	h.log.Info("order accepted", "order_id", order.ID, "products", len(order.Products))
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"orderId": order.ID,
	}, h.log)
}

func (h *OrderHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var (
		fieldErr    *service.FieldValidationError
		unknownErr  *service.UnknownProductError
		mismatchErr *service.TotalMismatchError
		soldErr     *service.AlreadySoldError
		catalogErr  *service.CatalogUpdateError
		notifyErr   *service.NotificationError
	)

	switch {
	case errors.Is(err, service.ErrMissingFields):
		WriteError(w, http.StatusBadRequest, "Datos incompletos", h.log)

	case errors.As(err, &fieldErr):
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Datos inválidos",
			"fields": fieldErr.Fields,
		}, h.log)

	case errors.As(err, &unknownErr):
		h.log.Warn("order references unknown product", "product_id", unknownErr.ProductID)
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":     "Producto inexistente",
			"productId": unknownErr.ProductID,
		}, h.log)

	case errors.As(err, &mismatchErr):
		h.log.Warn("order total mismatch",
			"submitted", mismatchErr.Submitted.String(),
			"computed", mismatchErr.Computed.String(),
		)
		WriteError(w, http.StatusBadRequest, "El total no coincide con los precios actuales", h.log)

	case errors.As(err, &soldErr):
		h.log.Info("order conflict: product already sold", "product_id", soldErr.ProductID)
		WriteJSON(w, http.StatusConflict, map[string]any{
			"error":     "El producto ya fue vendido",
			"productId": soldErr.ProductID,
		}, h.log)

	case errors.As(err, &catalogErr):
		h.log.Error("catalog update failed", "product_id", catalogErr.ProductID, "error", catalogErr.Err)
		WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":     "No se pudo actualizar el producto",
			"productId": catalogErr.ProductID,
		}, h.log)

	case errors.As(err, &notifyErr):
		h.log.Error("order notification failed",
			"order_id", notifyErr.OrderID,
			"recipient", notifyErr.Recipient,
			"error", notifyErr.Err,
		)
		WriteError(w, http.StatusInternalServerError, "No se pudo enviar el email.", h.log)

	default:
		h.log.Error("order submission failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}

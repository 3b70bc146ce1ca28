package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feriavaleria/storefront/internal/contact"
	"github.com/feriavaleria/storefront/internal/mail"
	"github.com/feriavaleria/storefront/internal/models"
	"github.com/feriavaleria/storefront/internal/repository"
)

// CatalogStore is the slice of the repository the order flow needs.
type CatalogStore interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	MarkAllSold(ctx context.Context, ids []int64, buyer string) error
}

// EventPublisher signals committed orders to a fulfillment consumer.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order models.Order) error
}

// OrderService orchestrates order submission: validate, commit the
// sale against the catalog store, then notify seller and buyer.
type OrderService struct {
	store       CatalogStore
	mailer      mail.Mailer
	publisher   EventPublisher // optional, may be nil
	sellerAddr  string
	sendTimeout time.Duration
	log         *slog.Logger
}

// NewOrderService creates a new order service. publisher may be nil
// when no broker is configured.
func NewOrderService(store CatalogStore, mailer mail.Mailer, publisher EventPublisher, sellerAddr string, sendTimeout time.Duration, log *slog.Logger) *OrderService {
	return &OrderService{
		store:       store,
		mailer:      mailer,
		publisher:   publisher,
		sellerAddr:  sellerAddr,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// SubmitOrder processes an order request end to end.
//
// All validation happens before any mutation: structural presence,
// contact field content, authoritative product lookup, and a total
// recomputed from catalog prices. The mark-sold batch is all-or-nothing,
// so a conflict or store failure leaves no product sold. Notification
// failure after the commit is reported as its own error kind; the sale
// stays committed.
func (s *OrderService) SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	if req.Name == "" || req.Email == "" || req.Phone == "" || len(req.Products) == 0 || req.Total.IsZero() {
		return nil, ErrMissingFields
	}

	buyer, fieldErrs := contact.Validate(req.Name, req.Email, req.Phone)
	if len(fieldErrs) > 0 {
		return nil, &FieldValidationError{Fields: fieldErrs}
	}

	// Re-fetch every product by ID; client display fields are ignored.
	ids := dedupeIDs(req.Products)
	products := make([]models.Product, 0, len(ids))
	computed := decimal.Zero
	for _, id := range ids {
		product, err := s.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, &UnknownProductError{ProductID: id}
			}
			return nil, &CatalogUpdateError{ProductID: id, Err: err}
		}
		products = append(products, *product)
		computed = computed.Add(product.Price)
	}

	if !computed.Equal(req.Total) {
		return nil, &TotalMismatchError{Submitted: req.Total, Computed: computed}
	}

	if err := s.store.MarkAllSold(ctx, ids, buyer.Email); err != nil {
		var updateErr *repository.UpdateError
		if errors.As(err, &updateErr) {
			if errors.Is(updateErr.Err, repository.ErrProductAlreadySold) {
				return nil, &AlreadySoldError{ProductID: updateErr.ProductID}
			}
			return nil, &CatalogUpdateError{ProductID: updateErr.ProductID, Err: updateErr.Err}
		}
		return nil, &CatalogUpdateError{ProductID: ids[0], Err: err}
	}

	for i := range products {
		products[i].Status = models.StatusSold
		products[i].Buyer = buyer.Email
	}

	order := models.Order{
		ID:        uuid.New().String(),
		Contact:   buyer,
		Products:  products,
		Total:     computed,
		CreatedAt: time.Now().UTC(),
	}

	// Fulfillment signal is best effort; the committed sale is the
	// source of truth and a consumer can reconcile from the store.
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.log.Error("failed to publish order event", "order_id", order.ID, "error", err)
		}
	}

	if err := s.notify(ctx, s.sellerAddr, mail.SubjectSeller, mail.ComposeOrderSummary(order)); err != nil {
		return nil, &NotificationError{OrderID: order.ID, Recipient: "seller", Err: err}
	}
	if err := s.notify(ctx, buyer.Email, mail.SubjectBuyer, mail.ComposeBuyerConfirmation(order)); err != nil {
		return nil, &NotificationError{OrderID: order.ID, Recipient: "buyer", Err: err}
	}

	s.log.Info("order submitted",
		"order_id", order.ID,
		"products", len(order.Products),
		"total", order.Total.String(),
	)

	return &order, nil
}

// notify runs a single send under its own timeout so a hung mail call
// cannot block the request indefinitely.
func (s *OrderService) notify(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.mailer.Send(ctx, to, subject, body)
}

// dedupeIDs keeps the first occurrence of each product ID, preserving
// request order: products are marked sold in the order they appear.
func dedupeIDs(products []models.OrderProduct) []int64 {
	seen := make(map[int64]struct{}, len(products))
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	return ids
}

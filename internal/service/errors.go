package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/feriavaleria/storefront/internal/contact"
)

// ErrMissingFields rejects a structurally incomplete payload before any
// validation or mutation happens.
var ErrMissingFields = errors.New("missing required fields")

// FieldValidationError carries per-field content violations. No system
// mutation has occurred; the shopper corrects input and resubmits.
type FieldValidationError struct {
	Fields contact.FieldErrors
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid contact fields: %d violation(s)", len(e.Fields))
}

// UnknownProductError rejects an order referencing a product the
// catalog does not have. Nothing was mutated.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %d", e.ProductID)
}

// TotalMismatchError rejects an order whose client-computed total does
// not match the authoritative catalog prices. Nothing was mutated.
type TotalMismatchError struct {
	Submitted decimal.Decimal
	Computed  decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total mismatch: submitted %s, catalog total %s", e.Submitted, e.Computed)
}

// AlreadySoldError reports a conflict: the product was sold between the
// shopper's last catalog read and submission. The batch was rolled
// back, so no product from this order is marked.
type AlreadySoldError struct {
	ProductID int64
}

func (e *AlreadySoldError) Error() string {
	return fmt.Sprintf("product %d is already sold", e.ProductID)
}

// CatalogUpdateError reports a store failure on a specific product.
// The mark-sold batch is all-or-nothing, so the catalog is unchanged.
type CatalogUpdateError struct {
	ProductID int64
	Err       error
}

func (e *CatalogUpdateError) Error() string {
	return fmt.Sprintf("could not update product %d: %v", e.ProductID, e.Err)
}

func (e *CatalogUpdateError) Unwrap() error {
	return e.Err
}

// NotificationError reports a failed or timed-out email send. The
// catalog updates are already committed and are not undone; the order
// ID lets the seller reconcile from the store.
type NotificationError struct {
	OrderID   string
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("order %s: could not notify %s: %v", e.OrderID, e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

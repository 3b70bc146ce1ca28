package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest represents an incoming order submission payload.
// Product display fields are client copies and are never trusted; the
// service re-fetches each product by ID before committing anything.
type OrderRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Products []OrderProduct  `json:"products"`
	Total    decimal.Decimal `json:"total"`
}

// OrderProduct is a product reference inside an order payload.
type OrderProduct struct {
	ID    int64           `json:"id"`
	Title string          `json:"title,omitempty"`
	Brand string          `json:"brand,omitempty"`
	Size  string          `json:"size,omitempty"`
	Price decimal.Decimal `json:"price,omitempty"`
}

// Contact holds validated buyer contact details.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order represents a committed order: every listed product has been
// marked sold and the total is recomputed from catalog prices.
type Order struct {
	ID        string          `json:"id"`
	Contact   Contact         `json:"contact"`
	Products  []Product       `json:"products"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

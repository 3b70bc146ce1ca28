package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductStatus is the lifecycle state of a catalog item.
// A product only ever moves available -> sold; there is no automatic revert.
type ProductStatus string

const (
	StatusAvailable ProductStatus = "available"
	StatusSold      ProductStatus = "sold"
)

// Product represents a single secondhand item in the catalog.
// Image is a filename stem; the JPEG/WebP variants live on disk outside this service.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Other       string          `json:"other"`
	Status      ProductStatus   `json:"status"`
	Buyer       string          `json:"buyer"`
	Image       string          `json:"image"`
}

// Available reports whether the product can still be bought.
func (p Product) Available() bool {
	return p.Status == StatusAvailable
}

// ParseStatus normalizes a raw status string to a ProductStatus.
// The seed data carries Spanish values in mixed case with diacritics
// ("Vendido", "DISPONIBLE", "vendída"); anything not recognizably
// sold is treated as available, matching the original catalog behavior.
func ParseStatus(raw string) ProductStatus {
	s := stripDiacritics(strings.ToLower(strings.TrimSpace(raw)))
	switch {
	case strings.HasPrefix(s, "vendid"), s == "sold":
		return StatusSold
	default:
		return StatusAvailable
	}
}

func stripDiacritics(s string) string {
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	)
	return replacer.Replace(s)
}

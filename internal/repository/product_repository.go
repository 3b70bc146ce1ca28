package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/feriavaleria/storefront/internal/models"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductAlreadySold = errors.New("product already sold")
)

// UpdateError reports which product a status update failed on.
type UpdateError struct {
	ProductID int64
	Err       error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("product %d: %v", e.ProductID, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// ProductRepository defines the interface for catalog data access.
// MarkSold is conditional: it only succeeds while the product is still
// available. MarkAllSold is all-or-nothing; on failure no product is
// marked and the returned *UpdateError names the offending product.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	MarkSold(ctx context.Context, id int64, buyer string) error
	MarkAllSold(ctx context.Context, ids []int64, buyer string) error
	Release(ctx context.Context, id int64) error
	Upsert(ctx context.Context, p models.Product) error
}

// InMemoryProductRepository implements ProductRepository with in-memory storage.
// Used by tests and as the no-database dev mode.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]models.Product
	order    []int64 // catalog listing order (insertion order)
}

// NewInMemoryProductRepository creates an empty in-memory catalog store.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[int64]models.Product),
	}
}

// GetAll returns all products in catalog order
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// MarkSold transitions a single product available -> sold.
func (r *InMemoryProductRepository) MarkSold(ctx context.Context, id int64, buyer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.markSoldLocked(id, buyer)
}

// MarkAllSold transitions every listed product available -> sold, in
// list order, inside one critical section. All products are checked
// before any is mutated, so a failure leaves the catalog untouched.
func (r *InMemoryProductRepository) MarkAllSold(ctx context.Context, ids []int64, buyer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		product, exists := r.products[id]
		if !exists {
			return &UpdateError{ProductID: id, Err: ErrProductNotFound}
		}
		if !product.Available() {
			return &UpdateError{ProductID: id, Err: ErrProductAlreadySold}
		}
	}

	for _, id := range ids {
		if err := r.markSoldLocked(id, buyer); err != nil {
			return &UpdateError{ProductID: id, Err: err}
		}
	}
	return nil
}

func (r *InMemoryProductRepository) markSoldLocked(id int64, buyer string) error {
	product, exists := r.products[id]
	if !exists {
		return ErrProductNotFound
	}
	if !product.Available() {
		return ErrProductAlreadySold
	}

	product.Status = models.StatusSold
	product.Buyer = buyer
	r.products[id] = product
	return nil
}

// Release returns a sold product to available and clears its buyer.
// This is a seller-side cancellation hook; the public order flow never calls it.
func (r *InMemoryProductRepository) Release(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		return ErrProductNotFound
	}

	product.Status = models.StatusAvailable
	product.Buyer = ""
	r.products[id] = product
	return nil
}

// Upsert inserts or replaces a product, preserving catalog order for existing IDs.
func (r *InMemoryProductRepository) Upsert(ctx context.Context, p models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = p
	return nil
}

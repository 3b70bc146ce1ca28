package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/feriavaleria/storefront/internal/models"
)

func seedRepo(t *testing.T) *InMemoryProductRepository {
	t.Helper()
	repo := NewInMemoryProductRepository()
	ctx := context.Background()

	products := []models.Product{
		{ID: 1, Title: "Campera de cuero", Brand: "Zara", Size: "M", Price: decimal.NewFromInt(15000), Status: models.StatusAvailable, Image: "1.webp"},
		{ID: 2, Title: "Vestido floreado", Brand: "H&M", Size: "S", Price: decimal.NewFromInt(8000), Status: models.StatusAvailable, Image: "2.webp"},
		{ID: 3, Title: "Jean recto", Brand: "Levis", Size: "38", Price: decimal.NewFromInt(12000), Status: models.StatusAvailable, Image: "3.webp"},
	}
	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func TestInMemory_GetAllPreservesOrder(t *testing.T) {
	repo := seedRepo(t)

	products, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("got %d products, want 3", len(products))
	}
	for i, want := range []int64{1, 2, 3} {
		if products[i].ID != want {
			t.Errorf("products[%d].ID = %d, want %d", i, products[i].ID, want)
		}
	}
}

func TestInMemory_GetByID(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, 2)
	if err != nil {
		t.Fatalf("GetByID(2): %v", err)
	}
	if p.Title != "Vestido floreado" {
		t.Errorf("Title = %q", p.Title)
	}

	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("GetByID(99) err = %v, want ErrProductNotFound", err)
	}
}

func TestInMemory_MarkSold(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	if err := repo.MarkSold(ctx, 1, "ana@example.com"); err != nil {
		t.Fatalf("MarkSold: %v", err)
	}

	p, _ := repo.GetByID(ctx, 1)
	if p.Status != models.StatusSold {
		t.Errorf("Status = %q, want sold", p.Status)
	}
	if p.Buyer != "ana@example.com" {
		t.Errorf("Buyer = %q", p.Buyer)
	}

	// Second buyer loses the race
	err := repo.MarkSold(ctx, 1, "eva@example.com")
	if !errors.Is(err, ErrProductAlreadySold) {
		t.Fatalf("second MarkSold err = %v, want ErrProductAlreadySold", err)
	}
	p, _ = repo.GetByID(ctx, 1)
	if p.Buyer != "ana@example.com" {
		t.Errorf("Buyer overwritten to %q", p.Buyer)
	}

	if err := repo.MarkSold(ctx, 42, "ana@example.com"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("MarkSold(42) err = %v, want ErrProductNotFound", err)
	}
}

func TestInMemory_MarkAllSold(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	if err := repo.MarkAllSold(ctx, []int64{1, 3}, "ana@example.com"); err != nil {
		t.Fatalf("MarkAllSold: %v", err)
	}

	for _, id := range []int64{1, 3} {
		p, _ := repo.GetByID(ctx, id)
		if p.Status != models.StatusSold || p.Buyer != "ana@example.com" {
			t.Errorf("product %d = %q/%q, want sold by ana", id, p.Status, p.Buyer)
		}
	}
	p, _ := repo.GetByID(ctx, 2)
	if p.Status != models.StatusAvailable {
		t.Errorf("product 2 = %q, want available", p.Status)
	}
}

func TestInMemory_MarkAllSold_AllOrNothing(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	// Product 2 is already gone
	if err := repo.MarkSold(ctx, 2, "eva@example.com"); err != nil {
		t.Fatalf("setup MarkSold: %v", err)
	}

	err := repo.MarkAllSold(ctx, []int64{1, 2, 3}, "ana@example.com")
	if err == nil {
		t.Fatal("MarkAllSold succeeded, want conflict")
	}

	var updateErr *UpdateError
	if !errors.As(err, &updateErr) {
		t.Fatalf("err type = %T, want *UpdateError", err)
	}
	if updateErr.ProductID != 2 {
		t.Errorf("failing ProductID = %d, want 2", updateErr.ProductID)
	}
	if !errors.Is(err, ErrProductAlreadySold) {
		t.Errorf("err = %v, does not wrap ErrProductAlreadySold", err)
	}

	// Nothing from the batch was marked
	for _, id := range []int64{1, 3} {
		p, _ := repo.GetByID(ctx, id)
		if p.Status != models.StatusAvailable {
			t.Errorf("product %d = %q after failed batch, want available", id, p.Status)
		}
	}
}

func TestInMemory_MarkAllSold_UnknownProduct(t *testing.T) {
	repo := seedRepo(t)

	err := repo.MarkAllSold(context.Background(), []int64{1, 99}, "ana@example.com")

	var updateErr *UpdateError
	if !errors.As(err, &updateErr) {
		t.Fatalf("err type = %T, want *UpdateError", err)
	}
	if updateErr.ProductID != 99 || !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want not-found on 99", err)
	}
}

func TestInMemory_Release(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	if err := repo.MarkSold(ctx, 1, "ana@example.com"); err != nil {
		t.Fatalf("MarkSold: %v", err)
	}
	if err := repo.Release(ctx, 1); err != nil {
		t.Fatalf("Release: %v", err)
	}

	p, _ := repo.GetByID(ctx, 1)
	if p.Status != models.StatusAvailable || p.Buyer != "" {
		t.Errorf("after Release: status=%q buyer=%q", p.Status, p.Buyer)
	}

	if err := repo.Release(ctx, 99); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Release(99) err = %v, want ErrProductNotFound", err)
	}
}

func TestInMemory_UpsertReplacesInPlace(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	updated := models.Product{ID: 2, Title: "Vestido liso", Price: decimal.NewFromInt(9000), Status: models.StatusAvailable}
	if err := repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	products, _ := repo.GetAll(ctx)
	if len(products) != 3 {
		t.Fatalf("got %d products after upsert, want 3", len(products))
	}
	if products[1].ID != 2 || products[1].Title != "Vestido liso" {
		t.Errorf("products[1] = %+v, want updated product 2 in place", products[1])
	}
}

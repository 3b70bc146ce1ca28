package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/feriavaleria/storefront/internal/models"
)

// PostgresProductRepository implements ProductRepository on Postgres.
// The products table mirrors the catalog schema the storefront was
// seeded with; see cmd/seed.
type PostgresProductRepository struct {
	db *sql.DB
}

// NewPostgresProductRepository opens a Postgres-backed catalog store.
func NewPostgresProductRepository(dsn string) (*PostgresProductRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresProductRepository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *PostgresProductRepository) Close() error {
	return r.db.Close()
}

const productColumns = `id, title, color, description, brand, size, price, other, status, buyer, image`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var status string
	err := row.Scan(&p.ID, &p.Title, &p.Color, &p.Description, &p.Brand, &p.Size,
		&p.Price, &p.Other, &status, &p.Buyer, &p.Image)
	if err != nil {
		return nil, err
	}
	p.Status = models.ParseStatus(status)
	return &p, nil
}

// GetAll returns the full catalog ordered by product ID.
func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product %d: %w", id, err)
	}
	return p, nil
}

// MarkSold transitions a single product available -> sold. The update is
// conditional on the current status so two buyers racing for the same
// product cannot both win.
func (r *PostgresProductRepository) MarkSold(ctx context.Context, id int64, buyer string) error {
	return markSoldExec(ctx, r.db, id, buyer)
}

// MarkAllSold applies the conditional updates in list order inside a
// single transaction; any failure rolls the whole batch back.
func (r *PostgresProductRepository) MarkAllSold(ctx context.Context, ids []int64, buyer string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if err := markSoldExec(ctx, tx, id, buyer); err != nil {
			return &UpdateError{ProductID: id, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark-sold batch: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func markSoldExec(ctx context.Context, db execer, id int64, buyer string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE products SET status = $1, buyer = $2 WHERE id = $3 AND status = $4`,
		string(models.StatusSold), buyer, id, string(models.StatusAvailable))
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for product %d: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing matched: either the row does not exist or it is no longer available.
	var exists bool
	err = db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check product %d: %w", id, err)
	}
	if !exists {
		return ErrProductNotFound
	}
	return ErrProductAlreadySold
}

// Release returns a sold product to available and clears its buyer.
func (r *PostgresProductRepository) Release(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET status = $1, buyer = '' WHERE id = $2`,
		string(models.StatusAvailable), id)
	if err != nil {
		return fmt.Errorf("release product %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for product %d: %w", id, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Upsert inserts or replaces a product row; used by the catalog seeder.
func (r *PostgresProductRepository) Upsert(ctx context.Context, p models.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			color = EXCLUDED.color,
			description = EXCLUDED.description,
			brand = EXCLUDED.brand,
			size = EXCLUDED.size,
			price = EXCLUDED.price,
			other = EXCLUDED.other,
			status = EXCLUDED.status,
			buyer = EXCLUDED.buyer,
			image = EXCLUDED.image`,
		p.ID, p.Title, p.Color, p.Description, p.Brand, p.Size,
		p.Price, p.Other, string(p.Status), p.Buyer, p.Image)
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", p.ID, err)
	}
	return nil
}

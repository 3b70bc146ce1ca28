// Command seed loads the product catalog from a CSV export into the
// Postgres catalog store. The file keeps the Spanish column names the
// catalog was originally maintained with.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feriavaleria/storefront/internal/models"
	"github.com/feriavaleria/storefront/internal/repository"
	"github.com/feriavaleria/storefront/pkg/logger"
)

func main() {
	csvPath := flag.String("csv", "feeding-data.csv", "path to the catalog CSV file")
	flag.Parse()

	log := logger.New(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(log)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	repo, err := repository.NewPostgresProductRepository(dsn)
	if err != nil {
		log.Error("failed to connect to catalog store", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	failed, err := seed(context.Background(), repo, *csvPath, log)
	if err != nil {
		log.Error("seed aborted", "error", err)
		os.Exit(1)
	}
	if failed > 0 {
		log.Error("seed finished with errors", "failed_rows", failed)
		os.Exit(1)
	}

	log.Info("seed finished")
}

func seed(ctx context.Context, repo repository.ProductRepository, csvPath string, log *slog.Logger) (failed int, err error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // hand-kept exports have ragged rows

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["id"]; !ok {
		return 0, fmt.Errorf("csv has no id column")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read rows: %w", err)
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for n, row := range records {
		id, err := strconv.ParseInt(field(row, "id"), 10, 64)
		if err != nil {
			log.Error("skipping row with bad id", "row", n+2, "error", err)
			failed++
			continue
		}

		// Estado is the current export column; older exports used Vendido.
		status := field(row, "Estado")
		if status == "" {
			status = field(row, "Vendido")
		}

		// A product the store cannot price cannot be ordered: the order
		// flow treats a zero total as an incomplete payload. Reject the
		// row here instead of seeding an unorderable item.
		price := parsePrice(field(row, "Valor"))
		if price.IsZero() {
			log.Error("skipping row with unparseable price", "row", n+2, "id", id, "raw", field(row, "Valor"))
			failed++
			continue
		}

		product := models.Product{
			ID:          id,
			Title:       field(row, "Prenda"),
			Color:       field(row, "Color"),
			Description: field(row, "Descripcion"),
			Brand:       field(row, "Marca"),
			Size:        field(row, "Talle"),
			Price:       price,
			Other:       field(row, "Otros"),
			Status:      models.ParseStatus(status),
			Buyer:       field(row, "Compradora"),
			Image:       fmt.Sprintf("%d.webp", id),
		}

		if err := repo.Upsert(ctx, product); err != nil {
			log.Error("failed to upsert product", "id", id, "error", err)
			failed++
			continue
		}
		log.Info("upserted product", "id", id, "title", product.Title)
	}

	return failed, nil
}

// parsePrice extracts the numeric amount from price text like "$ 12.500".
// The catalog uses whole pesos with a dot as the thousands separator,
// so stripping everything but digits gives the amount.
func parsePrice(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

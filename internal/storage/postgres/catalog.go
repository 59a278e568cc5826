package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mkarpis/palette-pricing/internal/domain/catalog"
	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

const listItemsSQL = `SELECT id, price, currency FROM items ORDER BY id`

var _ catalog.Source = (*CatalogSource)(nil)

// CatalogSource implements catalog.Source backed by PostgreSQL.
type CatalogSource struct {
	pool *pgxpool.Pool
}

// NewCatalogSource returns a CatalogSource that uses the given pool.
func NewCatalogSource(pool *pgxpool.Pool) *CatalogSource {
	return &CatalogSource{pool: pool}
}

type itemRow struct {
	id       string
	price    decimal.Decimal
	currency string
}

// Catalog loads the full item catalog.
func (s *CatalogSource) Catalog(ctx context.Context) (catalog.Catalog, error) {
	rows, err := s.pool.Query(ctx, listItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("scanning items: %w", err)
	}

	cat := make(catalog.Catalog, len(items))
	for _, item := range items {
		cat[item.id] = money.New(item.price, money.Currency(item.currency))
	}
	return cat, nil
}

func scanItem(row pgx.CollectableRow) (itemRow, error) {
	var item itemRow
	err := row.Scan(&item.id, &item.price, &item.currency)
	return item, err
}

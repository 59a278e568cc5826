package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

const listRatesSQL = `SELECT currency, rate FROM rates ORDER BY currency`

var _ money.RateSource = (*RateSource)(nil)

// RateSource implements money.RateSource backed by PostgreSQL.
type RateSource struct {
	pool *pgxpool.Pool
}

// NewRateSource returns a RateSource that uses the given pool.
func NewRateSource(pool *pgxpool.Pool) *RateSource {
	return &RateSource{pool: pool}
}

type rateRow struct {
	currency string
	rate     decimal.Decimal
}

// Rates loads the full exchange-rate table.
func (s *RateSource) Rates(ctx context.Context) (money.Rates, error) {
	rows, err := s.pool.Query(ctx, listRatesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanRate)
	if err != nil {
		return nil, fmt.Errorf("scanning rates: %w", err)
	}

	rates := make(money.Rates, len(entries))
	for _, entry := range entries {
		rates[money.Currency(entry.currency)] = entry.rate
	}
	return rates, nil
}

func scanRate(row pgx.CollectableRow) (rateRow, error) {
	var entry rateRow
	err := row.Scan(&entry.currency, &entry.rate)
	return entry, err
}

// Command seed-db loads the built-in palette dataset (items, exchange rates,
// discount rules) into PostgreSQL so the server can run against a database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mkarpis/palette-pricing/internal/palette"
	"github.com/mkarpis/palette-pricing/internal/storage/postgres"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedItems(ctx, pool); err != nil {
		return errors.Wrap(err, "seed items")
	}

	if err := seedRates(ctx, pool); err != nil {
		return errors.Wrap(err, "seed rates")
	}

	if err := seedRules(ctx, pool); err != nil {
		return errors.Wrap(err, "seed discount rules")
	}

	return nil
}

const upsertItemSQL = `
INSERT INTO items (id, price, currency)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET price = EXCLUDED.price, currency = EXCLUDED.currency
`

func seedItems(ctx context.Context, pool *pgxpool.Pool) error {
	cat, err := palette.Catalog().Catalog(ctx)
	if err != nil {
		return err
	}

	slog.Info("upserting items", slog.Int("count", len(cat)))

	for _, id := range cat.IDs() {
		price := cat[id]
		if _, err := pool.Exec(ctx, upsertItemSQL, id, price.Amount(), string(price.Currency())); err != nil {
			return errors.Wrapf(err, "upsert item %s", id)
		}

		slog.Info("upserted item", slog.String("id", id), slog.String("price", price.String()))
	}

	return nil
}

const upsertRateSQL = `
INSERT INTO rates (currency, rate)
VALUES ($1, $2)
ON CONFLICT (currency) DO UPDATE SET rate = EXCLUDED.rate
`

func seedRates(ctx context.Context, pool *pgxpool.Pool) error {
	rates, err := palette.Rates().Rates(ctx)
	if err != nil {
		return err
	}

	slog.Info("upserting rates", slog.Int("count", len(rates)))

	for currency, rate := range rates {
		if _, err := pool.Exec(ctx, upsertRateSQL, string(currency), rate); err != nil {
			return errors.Wrapf(err, "upsert rate %s", currency)
		}

		slog.Info("upserted rate", slog.String("currency", string(currency)), slog.String("rate", rate.String()))
	}

	return nil
}

const upsertRuleSQL = `
INSERT INTO discount_rules (id, kind, scope, bundle_size, fraction, position)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    kind = EXCLUDED.kind,
    scope = EXCLUDED.scope,
    bundle_size = EXCLUDED.bundle_size,
    fraction = EXCLUDED.fraction,
    position = EXCLUDED.position
`

type ruleRow struct {
	id         string
	kind       string
	scope      []string
	bundleSize int
	fraction   decimal.Decimal
	position   int
}

func seedRules(ctx context.Context, pool *pgxpool.Pool) error {
	rules := []ruleRow{
		{
			id:         palette.BundleRuleID,
			kind:       postgres.RuleKindBundle,
			scope:      []string{"orange", "pink", "green"},
			bundleSize: 2,
			fraction:   decimal.RequireFromString("0.05"),
			position:   1,
		},
		{
			id:       palette.MemberRuleID,
			kind:     postgres.RuleKindMemberPercentage,
			scope:    []string{},
			fraction: decimal.RequireFromString("0.1"),
			position: 2,
		},
	}

	slog.Info("upserting discount rules", slog.Int("count", len(rules)))

	for _, r := range rules {
		if _, err := pool.Exec(ctx, upsertRuleSQL,
			r.id, r.kind, r.scope, r.bundleSize, r.fraction, r.position,
		); err != nil {
			return errors.Wrapf(err, "upsert rule %s", r.id)
		}

		slog.Info("upserted rule", slog.String("id", r.id), slog.String("kind", r.kind))
	}

	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mkarpis/palette-pricing/internal/domain/catalog"
	"github.com/mkarpis/palette-pricing/internal/domain/discount"
)

// Rule kinds stored in the discount_rules table.
const (
	RuleKindBundle           = "bundle"
	RuleKindMemberPercentage = "member_percentage"
)

const listRulesSQL = `SELECT id, kind, scope, bundle_size, fraction
	FROM discount_rules ORDER BY position`

var _ discount.Registry = (*RuleRegistry)(nil)

// RuleRegistry implements discount.Registry backed by PostgreSQL. Rule rows
// are materialized into the concrete rule implementations; the stored position
// column fixes the evaluation order.
type RuleRegistry struct {
	pool    *pgxpool.Pool
	catalog catalog.Source
}

// NewRuleRegistry returns a RuleRegistry that builds rules against the given
// catalog source.
func NewRuleRegistry(pool *pgxpool.Pool, cat catalog.Source) *RuleRegistry {
	return &RuleRegistry{pool: pool, catalog: cat}
}

type ruleRow struct {
	id         string
	kind       string
	scope      []string
	bundleSize int
	fraction   decimal.Decimal
}

// Rules loads and materializes the rule definitions in evaluation order.
func (r *RuleRegistry) Rules(ctx context.Context) ([]discount.Rule, error) {
	rows, err := r.pool.Query(ctx, listRulesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discount rules: %w", err)
	}

	defs, err := pgx.CollectRows(rows, scanRule)
	if err != nil {
		return nil, fmt.Errorf("scanning discount rules: %w", err)
	}

	rules := make([]discount.Rule, 0, len(defs))
	for _, def := range defs {
		switch def.kind {
		case RuleKindBundle:
			rules = append(rules, discount.NewBundle(def.id, def.scope, r.catalog, def.bundleSize, def.fraction))
		case RuleKindMemberPercentage:
			rules = append(rules, discount.NewMemberPercentage(def.id, def.fraction))
		default:
			return nil, errors.Errorf("unsupported rule kind %q for rule %s", def.kind, def.id)
		}
	}
	return rules, nil
}

func scanRule(row pgx.CollectableRow) (ruleRow, error) {
	var def ruleRow
	err := row.Scan(&def.id, &def.kind, &def.scope, &def.bundleSize, &def.fraction)
	return def, err
}

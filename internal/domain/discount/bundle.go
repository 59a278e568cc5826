package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mkarpis/palette-pricing/internal/domain/catalog"
	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

// Bundle grants a fractional discount for every complete set of `size` units
// of a scoped item: -floor(q/size)*size*price*fraction, expressed in the
// item's native currency. Leftover units below a full set earn nothing.
type Bundle struct {
	id       string
	scope    Scope
	catalog  catalog.Source
	size     int
	fraction decimal.Decimal
}

// NewBundle creates a bundle rule. fraction is the positive per-set rate
// (0.05 for "5% per set"); the produced adjustments are negative.
func NewBundle(id string, items []string, source catalog.Source, size int, fraction decimal.Decimal) *Bundle {
	return &Bundle{
		id:       id,
		scope:    Scope(items),
		catalog:  source,
		size:     size,
		fraction: fraction,
	}
}

// ID returns the rule identifier.
func (b *Bundle) ID() string {
	return b.id
}

// Includes reports whether the item is in the bundle's scope.
func (b *Bundle) Includes(itemID string) bool {
	return b.scope.Includes(itemID)
}

// Calculate yields an absolute deduction per scoped ordered item. Items not
// stocked in the catalog and quantities below a full set are skipped.
func (b *Bundle) Calculate(ctx context.Context, ord Order) (map[string]Adjustment, error) {
	cat, err := b.catalog.Catalog(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	adjustments := make(map[string]Adjustment)
	for id, quantity := range ord.Items {
		if !b.scope.Includes(id) {
			continue
		}
		price, ok := cat.Price(id)
		if !ok {
			continue
		}

		bundled := (quantity / b.size) * b.size
		if bundled == 0 {
			continue
		}

		deduction := price.Amount().
			Mul(decimal.NewFromInt(int64(bundled))).
			Mul(b.fraction).
			Neg()
		adjustments[id] = Absolute(money.New(deduction, price.Currency()))
	}

	return adjustments, nil
}

// Package catalog defines the read-only item catalog consumed by the pricing
// engine: a mapping from item id to its unit price in a native currency.
package catalog

import (
	"context"
	"sort"

	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

// Catalog maps item ids to native unit prices. It is conceptually static for
// the lifetime of a calculation.
type Catalog map[string]money.Money

// Price returns the native unit price for an item id.
func (c Catalog) Price(id string) (money.Money, bool) {
	price, ok := c[id]
	return price, ok
}

// Has reports whether the item id is stocked.
func (c Catalog) Has(id string) bool {
	_, ok := c[id]
	return ok
}

// IDs returns all item ids in lexical order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Source resolves the item catalog. The resolved catalog must be stable for
// the lifetime of a calculation.
type Source interface {
	Catalog(ctx context.Context) (Catalog, error)
}

// Static is an in-memory Source.
type Static Catalog

// Catalog returns the catalog itself.
func (s Static) Catalog(context.Context) (Catalog, error) {
	return Catalog(s), nil
}

// Package discount defines the composable discount rule abstraction: a named,
// item-scoped computation that yields absolute monetary deductions or
// percentage deductions per order item.
package discount

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

// Wildcard marks a rule scope that covers every item.
const Wildcard = "*"

// Scope is the set of item ids a rule applies to, or the single Wildcard.
type Scope []string

// Includes reports whether the scope covers the given item id.
func (s Scope) Includes(itemID string) bool {
	for _, id := range s {
		if id == Wildcard || id == itemID {
			return true
		}
	}
	return false
}

// Kind discriminates the two adjustment variants.
type Kind uint8

const (
	// KindAbsolute is a negative Money deduction in some currency.
	KindAbsolute Kind = iota
	// KindPercentage is a negative fraction, e.g. -0.1 for 10% off.
	KindPercentage
)

// Adjustment is the tagged union of an absolute Money deduction and a
// fractional percentage deduction.
type Adjustment struct {
	kind     Kind
	amount   money.Money
	fraction decimal.Decimal
}

// Absolute wraps a Money deduction.
func Absolute(m money.Money) Adjustment {
	return Adjustment{kind: KindAbsolute, amount: m}
}

// Percentage wraps a fractional deduction.
func Percentage(fraction decimal.Decimal) Adjustment {
	return Adjustment{kind: KindPercentage, fraction: fraction}
}

// Kind returns the variant discriminator.
func (a Adjustment) Kind() Kind {
	return a.kind
}

// Amount returns the Money deduction of a KindAbsolute adjustment.
func (a Adjustment) Amount() money.Money {
	return a.amount
}

// Fraction returns the fractional deduction of a KindPercentage adjustment.
func (a Adjustment) Fraction() decimal.Decimal {
	return a.fraction
}

// Order is the read-only view of an order that rules calculate against.
// Items only contains ordered items with positive quantities.
type Order struct {
	MemberID string
	Currency money.Currency
	Items    map[string]int
}

// Rule is a stateless, reusable discount computation. Calculate must be pure
// with respect to the order view and return a mapping from item id to the
// rule's adjustment for that item; items outside the rule's concern are simply
// absent from the result.
type Rule interface {
	ID() string
	// Includes reports whether the rule's scope could cover the item. It is
	// meant for display collaborators; the aggregation algorithm relies on
	// Calculate itself to filter.
	Includes(itemID string) bool
	Calculate(ctx context.Context, ord Order) (map[string]Adjustment, error)
}

// Registry resolves the ordered rule list. Evaluation order follows the
// returned slice, which keeps percentage compounding deterministic.
type Registry interface {
	Rules(ctx context.Context) ([]Rule, error)
}

// StaticRegistry is an in-memory Registry preserving registration order.
type StaticRegistry []Rule

// NewStaticRegistry builds a registry from rules in registration order.
func NewStaticRegistry(rules ...Rule) StaticRegistry {
	return StaticRegistry(rules)
}

// Rules returns the registered rules.
func (r StaticRegistry) Rules(context.Context) ([]Rule, error) {
	return []Rule(r), nil
}

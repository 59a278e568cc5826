// Package money provides the immutable monetary value object used across the
// pricing engine, together with the exchange-rate table and the ordered Monies
// collection it aggregates into.
package money

import (
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

// Currencies covered by the built-in rate table.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	THB Currency = "THB"
	JPY Currency = "JPY"
)

// Money is an immutable amount in a single currency. The amount is rounded to
// two fractional digits at construction, so every derived value stays at
// 2-decimal precision. Transformations always return a new Money.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money, rounding the amount to two decimal places. The currency
// is stored verbatim; it is only checked against the rate table on exchange.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount.Round(2), currency: currency}
}

// NewFromInt creates a Money from a whole amount.
func NewFromInt(amount int64, currency Currency) Money {
	return New(decimal.NewFromInt(amount), currency)
}

// Amount returns the 2-decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() Currency {
	return m.currency
}

// Derive returns a new Money in the same currency whose amount is f applied to
// the current amount, re-rounded to two decimals.
func (m Money) Derive(f func(amount decimal.Decimal) decimal.Decimal) Money {
	return New(f(m.amount), m.currency)
}

// Equal reports whether both currency and amount match.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String renders the amount with two decimals followed by the currency code,
// e.g. "1950.00 THB". Use Format for locale-aware output.
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

package money

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// UnknownCurrencyError indicates a currency code absent from the rate table.
// A broken rate table is a configuration error, so callers are expected to
// abort the whole calculation rather than skip the affected item.
type UnknownCurrencyError struct {
	Currency Currency
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("currency %s not present in rate table", e.Currency)
}

// Rates maps currency codes to positive rates relative to a common base.
// The table is read-only for the lifetime of a calculation.
type Rates map[Currency]decimal.Decimal

func (r Rates) rate(currency Currency) (decimal.Decimal, error) {
	rate, ok := r[currency]
	if !ok {
		return decimal.Decimal{}, &UnknownCurrencyError{Currency: currency}
	}
	return rate, nil
}

// Exchange converts m into the target currency, applying derive to the
// converted (pre-rounding) amount. When the currencies are equal no rate
// lookup happens and derive is applied to the amount directly. It fails with
// UnknownCurrencyError when either currency is missing from the table.
func (r Rates) Exchange(m Money, target Currency, derive func(amount decimal.Decimal) decimal.Decimal) (Money, error) {
	if m.currency == target {
		return New(derive(m.amount), target), nil
	}

	from, err := r.rate(m.currency)
	if err != nil {
		return Money{}, err
	}
	to, err := r.rate(target)
	if err != nil {
		return Money{}, err
	}

	return New(derive(m.amount.Div(from).Mul(to)), target), nil
}

// Convert is Exchange with the identity derive function.
func (r Rates) Convert(m Money, target Currency) (Money, error) {
	return r.Exchange(m, target, func(amount decimal.Decimal) decimal.Decimal { return amount })
}

// RateSource resolves the exchange-rate table. Implementations may be backed
// by memory or storage; the resolved table must be stable for the lifetime of
// a calculation.
type RateSource interface {
	Rates(ctx context.Context) (Rates, error)
}

// StaticRates is an in-memory RateSource.
type StaticRates Rates

// Rates returns the table itself.
func (s StaticRates) Rates(context.Context) (Rates, error) {
	return Rates(s), nil
}

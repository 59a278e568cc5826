package money

import (
	"github.com/shopspring/decimal"
)

// Monies is an ordered collection of Money values, possibly in mixed
// currencies. Insertion order is preserved for deterministic iteration;
// summation is commutative within the per-entry rounding policy.
type Monies []Money

// Sum converts every entry into the target currency and accumulates the
// results into a zero Money in that currency. Cross-currency entries are
// re-rounded to two decimals individually before accumulation; same-currency
// entries are added as-is (they already carry 2-decimal precision).
func (ms Monies) Sum(target Currency, rates Rates) (Money, error) {
	sum := decimal.Zero
	for _, m := range ms {
		if m.currency == target {
			sum = sum.Add(m.amount)
			continue
		}

		from, err := rates.rate(m.currency)
		if err != nil {
			return Money{}, err
		}
		to, err := rates.rate(target)
		if err != nil {
			return Money{}, err
		}
		sum = sum.Add(m.amount.Div(from).Mul(to).Round(2))
	}

	return New(sum, target), nil
}

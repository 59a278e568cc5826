package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mkarpis/palette-pricing/internal/domain/catalog"
	"github.com/mkarpis/palette-pricing/internal/domain/discount"
	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

// Pricer computes order prices from explicitly injected collaborators: the
// item catalog, the exchange-rate table, and the discount rule registry. All
// three are shared, read-only resources; Pricer holds no per-order state.
type Pricer struct {
	catalog catalog.Source
	rates   money.RateSource
	rules   discount.Registry
}

// NewPricer creates a Pricer with the given collaborators.
func NewPricer(cat catalog.Source, rates money.RateSource, rules discount.Registry) *Pricer {
	return &Pricer{
		catalog: cat,
		rates:   rates,
		rules:   rules,
	}
}

// Quote bundles every derived figure for one order in its target currency.
type Quote struct {
	Currency      money.Currency
	TotalQuantity int
	Subtotal      money.Money
	TotalDiscount money.Money
	Total         money.Money
	Discounts     map[string]money.Monies
}

// Discounts evaluates every registered rule against the order and returns the
// per-item deduction collections in the order's currency where converted.
//
// Rules run concurrently; their outputs merge in registration order, which
// keeps percentage compounding deterministic. Absolute deductions seed each
// item's collection. Percentage deductions then apply sequentially and
// compoundingly: each one is computed against the item's live running total
// (native subtotal plus all deductions pushed so far), converted into the
// order's currency at that step.
func (p *Pricer) Discounts(ctx context.Context, o *Order) (map[string]money.Monies, error) {
	cat, rates, rules, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]discount.Adjustment, len(rules))
	view := o.view()

	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range rules {
		g.Go(func() error {
			adjustments, err := rule.Calculate(gctx, view)
			if err != nil {
				return errors.Wrapf(err, "rule %s", rule.ID())
			}
			results[i] = adjustments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Partition per item: absolute deductions now, percentages for later.
	// Entries for items missing from the catalog are discarded.
	deductions := make(map[string]money.Monies)
	percentages := make(map[string][]decimal.Decimal)
	for _, adjustments := range results {
		for id, adj := range adjustments {
			if !cat.Has(id) {
				continue
			}
			switch adj.Kind() {
			case discount.KindAbsolute:
				deductions[id] = append(deductions[id], adj.Amount())
			case discount.KindPercentage:
				percentages[id] = append(percentages[id], adj.Fraction())
			}
		}
	}

	for id, fractions := range percentages {
		price, ok := cat.Price(id)
		quantity := o.Items[id]
		if !ok || quantity == 0 {
			continue
		}
		quantityDec := decimal.NewFromInt(int64(quantity))

		entries := deductions[id]
		for _, fraction := range fractions {
			base, err := entries.Sum(o.Currency, rates)
			if err != nil {
				return nil, err
			}
			delta, err := rates.Exchange(price, o.Currency, func(amount decimal.Decimal) decimal.Decimal {
				return amount.Mul(quantityDec).Add(base.Amount()).Mul(fraction)
			})
			if err != nil {
				return nil, err
			}
			entries = append(entries, delta)
		}
		deductions[id] = entries
	}

	return deductions, nil
}

// TotalDiscount sums the per-item deduction collections into one (negative)
// Money in the order's currency.
func (p *Pricer) TotalDiscount(ctx context.Context, o *Order) (money.Money, error) {
	discounts, err := p.Discounts(ctx, o)
	if err != nil {
		return money.Money{}, err
	}
	rates, err := p.rates.Rates(ctx)
	if err != nil {
		return money.Money{}, errors.Wrap(err, "load rates")
	}
	return sumDiscounts(discounts, o.Currency, rates)
}

// Subtotal converts each ordered item's native price into the order's currency
// and accumulates price times quantity, without any discount. Item ids missing
// from the catalog are silently ignored.
func (p *Pricer) Subtotal(ctx context.Context, o *Order) (money.Money, error) {
	cat, err := p.catalog.Catalog(ctx)
	if err != nil {
		return money.Money{}, errors.Wrap(err, "load catalog")
	}
	rates, err := p.rates.Rates(ctx)
	if err != nil {
		return money.Money{}, errors.Wrap(err, "load rates")
	}

	sum := decimal.Zero
	for id, quantity := range o.Items {
		price, ok := cat.Price(id)
		if !ok {
			continue
		}
		converted, err := rates.Convert(price, o.Currency)
		if err != nil {
			return money.Money{}, err
		}
		sum = sum.Add(converted.Amount().Mul(decimal.NewFromInt(int64(quantity))))
	}

	return money.New(sum, o.Currency), nil
}

// Total derives the payable amount: subtotal plus the (negative) total
// discount, in the order's currency.
func (p *Pricer) Total(ctx context.Context, o *Order) (money.Money, error) {
	subtotal, err := p.Subtotal(ctx, o)
	if err != nil {
		return money.Money{}, err
	}
	totalDiscount, err := p.TotalDiscount(ctx, o)
	if err != nil {
		return money.Money{}, err
	}
	return subtotal.Derive(func(amount decimal.Decimal) decimal.Decimal {
		return amount.Add(totalDiscount.Amount())
	}), nil
}

// Price computes the full quote in one pass, evaluating the rules once.
func (p *Pricer) Price(ctx context.Context, o *Order) (*Quote, error) {
	discounts, err := p.Discounts(ctx, o)
	if err != nil {
		return nil, err
	}
	rates, err := p.rates.Rates(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load rates")
	}

	totalDiscount, err := sumDiscounts(discounts, o.Currency, rates)
	if err != nil {
		return nil, err
	}
	subtotal, err := p.Subtotal(ctx, o)
	if err != nil {
		return nil, err
	}
	total := subtotal.Derive(func(amount decimal.Decimal) decimal.Decimal {
		return amount.Add(totalDiscount.Amount())
	})

	return &Quote{
		Currency:      o.Currency,
		TotalQuantity: o.TotalQuantity(),
		Subtotal:      subtotal,
		TotalDiscount: totalDiscount,
		Total:         total,
		Discounts:     discounts,
	}, nil
}

func (p *Pricer) load(ctx context.Context) (catalog.Catalog, money.Rates, []discount.Rule, error) {
	cat, err := p.catalog.Catalog(ctx)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load catalog")
	}
	rates, err := p.rates.Rates(ctx)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load rates")
	}
	rules, err := p.rules.Rules(ctx)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "load discount rules")
	}
	return cat, rates, rules, nil
}

func sumDiscounts(discounts map[string]money.Monies, currency money.Currency, rates money.Rates) (money.Money, error) {
	total := decimal.Zero
	for _, entries := range discounts {
		sum, err := entries.Sum(currency, rates)
		if err != nil {
			return money.Money{}, err
		}
		total = total.Add(sum.Amount())
	}
	return money.New(total, currency), nil
}

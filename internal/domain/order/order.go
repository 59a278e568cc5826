// Package order holds the order aggregate and the pricing engine that derives
// subtotal, discounts, and total from the catalog, rate table, and discount
// rule registry.
package order

import (
	"github.com/mkarpis/palette-pricing/internal/domain/discount"
	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

// Order is a single-owner aggregate: member status, target currency, and item
// quantities. It owns no monetary values; calculations are pure reads over the
// current state plus injected collaborators. Mutating an order while a
// calculation is in flight is undefined behaviour; callers must serialize.
type Order struct {
	MemberID string
	Currency money.Currency
	Items    map[string]int
}

// New creates an empty order for the given member (may be blank) and currency.
func New(memberID string, currency money.Currency) *Order {
	return &Order{
		MemberID: memberID,
		Currency: currency,
		Items:    make(map[string]int),
	}
}

// SetItem sets the quantity for an item. Non-positive quantities remove the
// item, keeping "missing id" and "zero quantity" the same state.
func (o *Order) SetItem(id string, quantity int) {
	if quantity <= 0 {
		delete(o.Items, id)
		return
	}
	o.Items[id] = quantity
}

// SetMemberID sets or clears the member id.
func (o *Order) SetMemberID(id string) {
	o.MemberID = id
}

// SetCurrency changes the target currency for subsequent calculations.
func (o *Order) SetCurrency(currency money.Currency) {
	o.Currency = currency
}

// Quantity returns the ordered quantity for an item, zero when absent.
func (o *Order) Quantity(id string) int {
	return o.Items[id]
}

// TotalQuantity returns the sum of all item quantities.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, quantity := range o.Items {
		total += quantity
	}
	return total
}

// view snapshots the order for rule evaluation. Rules treat the view as
// read-only, so sharing the items map is safe within a calculation.
func (o *Order) view() discount.Order {
	return discount.Order{
		MemberID: o.MemberID,
		Currency: o.Currency,
		Items:    o.Items,
	}
}

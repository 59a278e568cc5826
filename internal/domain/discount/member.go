package discount

import (
	"context"

	"github.com/shopspring/decimal"
)

// MemberPercentage grants a flat percentage deduction on every ordered item
// when the order carries a member id. Orders without a member id receive no
// entries at all.
type MemberPercentage struct {
	id       string
	fraction decimal.Decimal
}

// NewMemberPercentage creates a wildcard-scoped member rule. fraction is the
// positive rate (0.1 for 10% off); the produced adjustments are negative.
func NewMemberPercentage(id string, fraction decimal.Decimal) *MemberPercentage {
	return &MemberPercentage{id: id, fraction: fraction}
}

// ID returns the rule identifier.
func (m *MemberPercentage) ID() string {
	return m.id
}

// Includes always reports true: the rule is wildcard-scoped.
func (m *MemberPercentage) Includes(string) bool {
	return true
}

// Calculate yields a percentage deduction for every ordered item, or an empty
// mapping when the order has no member id.
func (m *MemberPercentage) Calculate(_ context.Context, ord Order) (map[string]Adjustment, error) {
	adjustments := make(map[string]Adjustment)
	if ord.MemberID == "" {
		return adjustments, nil
	}

	for id := range ord.Items {
		adjustments[id] = Percentage(m.fraction.Neg())
	}
	return adjustments, nil
}

package discount

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpis/palette-pricing/internal/domain/catalog"
	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

func testCatalog() catalog.Static {
	return catalog.Static{
		"green":  money.NewFromInt(40, money.THB),
		"pink":   money.NewFromInt(80, money.THB),
		"orange": money.NewFromInt(120, money.THB),
		"red":    money.NewFromInt(50, money.THB),
	}
}

func fivePercentEveryTwo() *Bundle {
	return NewBundle("5%EVERY2", []string{"orange", "pink", "green"}, testCatalog(), 2,
		decimal.RequireFromString("0.05"))
}

func TestScope_Includes(t *testing.T) {
	tests := []struct {
		name   string
		scope  Scope
		itemID string
		want   bool
	}{
		{name: "listed", scope: Scope{"pink", "green"}, itemID: "pink", want: true},
		{name: "not listed", scope: Scope{"pink", "green"}, itemID: "red", want: false},
		{name: "wildcard", scope: Scope{Wildcard}, itemID: "anything", want: true},
		{name: "empty", scope: Scope{}, itemID: "red", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Includes(tt.itemID))
		})
	}
}

func TestBundle_PairDiscount(t *testing.T) {
	rule := fivePercentEveryTwo()

	got, err := rule.Calculate(context.Background(), Order{
		Currency: money.THB,
		Items:    map[string]int{"green": 6, "pink": 5, "orange": 2, "red": 7},
	})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.True(t, got["green"].Amount().Equal(money.NewFromInt(-12, money.THB)))
	assert.True(t, got["pink"].Amount().Equal(money.NewFromInt(-16, money.THB)))
	assert.True(t, got["orange"].Amount().Equal(money.NewFromInt(-12, money.THB)))
}

func TestBundle_OddLeftoverEarnsNothing(t *testing.T) {
	rule := fivePercentEveryTwo()

	// 5 units at 80: two full pairs discount, the odd unit earns nothing.
	got, err := rule.Calculate(context.Background(), Order{
		Currency: money.THB,
		Items:    map[string]int{"pink": 5},
	})
	require.NoError(t, err)

	require.Contains(t, got, "pink")
	adj := got["pink"]
	assert.Equal(t, KindAbsolute, adj.Kind())
	assert.True(t, adj.Amount().Equal(money.NewFromInt(-16, money.THB)),
		"got %s", adj.Amount())
}

func TestBundle_SingleUnitYieldsNoEntry(t *testing.T) {
	rule := fivePercentEveryTwo()

	got, err := rule.Calculate(context.Background(), Order{
		Currency: money.THB,
		Items:    map[string]int{"pink": 1},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBundle_IncludesMatchesScope(t *testing.T) {
	rule := fivePercentEveryTwo()
	assert.True(t, rule.Includes("pink"))
	assert.False(t, rule.Includes("red"))
}

func TestMemberPercentage_Member(t *testing.T) {
	rule := NewMemberPercentage("10%MEMBER", decimal.RequireFromString("0.1"))

	got, err := rule.Calculate(context.Background(), Order{
		MemberID: "m-1",
		Currency: money.THB,
		Items:    map[string]int{"red": 7, "blue": 3},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	for id, adj := range got {
		assert.Equal(t, KindPercentage, adj.Kind(), "item %s", id)
		assert.True(t, adj.Fraction().Equal(decimal.RequireFromString("-0.1")))
	}
}

func TestMemberPercentage_NoMemberYieldsNoEntries(t *testing.T) {
	rule := NewMemberPercentage("10%MEMBER", decimal.RequireFromString("0.1"))

	got, err := rule.Calculate(context.Background(), Order{
		Currency: money.THB,
		Items:    map[string]int{"red": 7, "blue": 3},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemberPercentage_WildcardScope(t *testing.T) {
	rule := NewMemberPercentage("10%MEMBER", decimal.RequireFromString("0.1"))
	assert.True(t, rule.Includes("anything"))
}

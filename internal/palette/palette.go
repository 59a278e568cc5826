// Package palette carries the built-in dataset: the color-goods catalog, the
// static exchange-rate table, and the two stock discount rules. The server
// falls back to this data when no database is configured, and the seed tool
// loads it into PostgreSQL.
package palette

import (
	"github.com/shopspring/decimal"

	"github.com/mkarpis/palette-pricing/internal/domain/catalog"
	"github.com/mkarpis/palette-pricing/internal/domain/discount"
	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

// Stock rule identifiers.
const (
	BundleRuleID = "5%EVERY2"
	MemberRuleID = "10%MEMBER"
)

// Catalog returns the built-in item catalog, priced in THB.
func Catalog() catalog.Static {
	return catalog.Static{
		"red":    money.NewFromInt(50, money.THB),
		"green":  money.NewFromInt(40, money.THB),
		"blue":   money.NewFromInt(30, money.THB),
		"yellow": money.NewFromInt(50, money.THB),
		"pink":   money.NewFromInt(80, money.THB),
		"purple": money.NewFromInt(90, money.THB),
		"orange": money.NewFromInt(120, money.THB),
	}
}

// Rates returns the built-in rate table, relative to USD.
func Rates() money.StaticRates {
	return money.StaticRates{
		money.USD: decimal.NewFromInt(1),
		money.EUR: decimal.RequireFromString("0.85"),
		money.THB: decimal.NewFromInt(30),
		money.JPY: decimal.NewFromInt(100),
	}
}

// Rules returns the stock discount rules in their evaluation order: the pair
// bundle on orange/pink/green, then the 10% member discount on everything.
func Rules(source catalog.Source) discount.StaticRegistry {
	return discount.NewStaticRegistry(
		discount.NewBundle(BundleRuleID, []string{"orange", "pink", "green"}, source, 2,
			decimal.RequireFromString("0.05")),
		discount.NewMemberPercentage(MemberRuleID, decimal.RequireFromString("0.1")),
	)
}

package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_Empty(t *testing.T) {
	sum, err := Monies{}.Sum(THB, testRates())
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
	assert.Equal(t, THB, sum.Currency())
}

func TestSum_MixedCurrencies(t *testing.T) {
	ms := Monies{
		NewFromInt(30, THB),                          // 30 THB
		NewFromInt(1, USD),                           // -> 30 THB
		New(decimal.RequireFromString("0.85"), EUR),  // -> 30 THB
		NewFromInt(100, JPY),                         // -> 30 THB
	}

	sum, err := ms.Sum(THB, testRates())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(sum.Amount()), "got %s", sum.Amount())
}

func TestSum_PerEntryRounding(t *testing.T) {
	// 1 THB -> 0.0333... USD, rounded to 0.03 per entry before accumulation.
	ms := Monies{NewFromInt(1, THB), NewFromInt(1, THB), NewFromInt(1, THB)}

	sum, err := ms.Sum(USD, testRates())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.09").Equal(sum.Amount()), "got %s", sum.Amount())
}

func TestSum_Commutative(t *testing.T) {
	entries := Monies{
		NewFromInt(50, THB),
		New(decimal.RequireFromString("-12.34"), USD),
		NewFromInt(7, EUR),
		NewFromInt(990, JPY),
	}
	permutations := []Monies{
		{entries[0], entries[1], entries[2], entries[3]},
		{entries[3], entries[2], entries[1], entries[0]},
		{entries[1], entries[3], entries[0], entries[2]},
	}

	want, err := permutations[0].Sum(EUR, testRates())
	require.NoError(t, err)

	for _, perm := range permutations[1:] {
		got, err := perm.Sum(EUR, testRates())
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "want %s, got %s", want, got)
	}
}

func TestSum_UnknownCurrency(t *testing.T) {
	ms := Monies{NewFromInt(10, THB)}

	_, err := ms.Sum(USD, Rates{USD: decimal.NewFromInt(1)})
	var ucErr *UnknownCurrencyError
	require.ErrorAs(t, err, &ucErr)
	assert.Equal(t, THB, ucErr.Currency)
}

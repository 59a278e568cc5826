package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() Rates {
	return Rates{
		USD: decimal.NewFromInt(1),
		EUR: decimal.RequireFromString("0.85"),
		THB: decimal.NewFromInt(30),
		JPY: decimal.NewFromInt(100),
	}
}

func TestNew_RoundsToTwoDecimals(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{name: "already two decimals", amount: "12.34", want: "12.34"},
		{name: "long fraction", amount: "12.3456", want: "12.35"},
		{name: "negative", amount: "-0.005", want: "-0.01"},
		{name: "integer", amount: "7", want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(decimal.RequireFromString(tt.amount), THB)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(m.Amount()),
				"got %s", m.Amount())
		})
	}
}

func TestNew_RoundingIdempotent(t *testing.T) {
	once := New(decimal.RequireFromString("99.99"), USD)
	twice := New(once.Amount(), USD)
	assert.True(t, once.Equal(twice))
}

func TestDerive_IdentityIsNoOp(t *testing.T) {
	m := New(decimal.RequireFromString("42.42"), EUR)
	derived := m.Derive(func(a decimal.Decimal) decimal.Decimal { return a })

	assert.True(t, m.Equal(derived))
}

func TestDerive_AppliesFunctionAndRounds(t *testing.T) {
	m := New(decimal.NewFromInt(10), THB)
	tripled := m.Derive(func(a decimal.Decimal) decimal.Decimal {
		return a.Mul(decimal.RequireFromString("3.3333"))
	})

	assert.True(t, decimal.RequireFromString("33.33").Equal(tripled.Amount()))
	assert.Equal(t, THB, tripled.Currency())
}

func TestExchange_SameCurrencyIdentity(t *testing.T) {
	m := New(decimal.RequireFromString("123.45"), THB)

	// Same-currency exchange needs no rate lookup, so even an empty table works.
	got, err := Rates{}.Convert(m, THB)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestExchange_CrossCurrency(t *testing.T) {
	m := New(decimal.NewFromInt(100), EUR)

	got, err := testRates().Convert(m, USD)
	require.NoError(t, err)
	assert.Equal(t, USD, got.Currency())
	assert.True(t, decimal.RequireFromString("117.65").Equal(got.Amount()),
		"got %s", got.Amount())
}

func TestExchange_RoundTripWithinRoundingError(t *testing.T) {
	rates := testRates()
	m := New(decimal.NewFromInt(100), EUR)

	there, err := rates.Convert(m, USD)
	require.NoError(t, err)
	back, err := rates.Convert(there, EUR)
	require.NoError(t, err)

	diff := back.Amount().Sub(m.Amount()).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.02")),
		"round trip drifted by %s", diff)
}

func TestExchange_UnknownCurrency(t *testing.T) {
	rates := Rates{USD: decimal.NewFromInt(1)}

	tests := []struct {
		name    string
		m       Money
		target  Currency
		missing Currency
	}{
		{name: "source missing", m: NewFromInt(10, THB), target: USD, missing: THB},
		{name: "target missing", m: NewFromInt(10, USD), target: JPY, missing: JPY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rates.Convert(tt.m, tt.target)
			var ucErr *UnknownCurrencyError
			require.ErrorAs(t, err, &ucErr)
			assert.Equal(t, tt.missing, ucErr.Currency)
		})
	}
}

func TestExchange_DeriveAppliedToConvertedAmount(t *testing.T) {
	m := New(decimal.NewFromInt(30), THB)

	// 30 THB -> 1 USD, then derive doubles it.
	got, err := testRates().Exchange(m, USD, func(a decimal.Decimal) decimal.Decimal {
		return a.Mul(decimal.NewFromInt(2))
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(got.Amount()), "got %s", got.Amount())
}

func TestString(t *testing.T) {
	m := New(decimal.RequireFromString("1950"), THB)
	assert.Equal(t, "1950.00 THB", m.String())
}

func TestFormat_DigitsPerCurrency(t *testing.T) {
	usd := New(decimal.RequireFromString("10.50"), USD)
	assert.Contains(t, usd.FormatEnglish(), "10.50")
	assert.Contains(t, usd.FormatEnglish(), "$")

	jpy := New(decimal.NewFromInt(1200), JPY)
	assert.NotContains(t, jpy.FormatEnglish(), ".")
}

func TestFormat_UnknownCurrencyFallsBack(t *testing.T) {
	m := New(decimal.NewFromInt(5), Currency("XXQ"))
	assert.Equal(t, "5.00 XXQ", m.FormatEnglish())
}

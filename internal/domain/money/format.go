package money

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format renders the value with the conventional symbol and digit count for
// its currency in the given locale: USD and EUR show two fractional digits,
// JPY shows none. Unknown currency codes fall back to the plain String form.
func (m Money) Format(tag language.Tag) string {
	unit, err := currency.ParseISO(string(m.currency))
	if err != nil {
		return m.String()
	}

	scale, _ := currency.Standard.Rounding(unit)
	amount := m.amount.Round(int32(scale))

	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}

// FormatEnglish is Format in the English locale.
func (m Money) FormatEnglish() string {
	return m.Format(language.English)
}

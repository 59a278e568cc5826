package api

import (
	"net/http"
	"sort"

	"github.com/go-faster/jx"

	"github.com/mkarpis/palette-pricing/internal/domain/money"
)

// listItems returns the catalog with native prices and a locale-formatted
// display string per item.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalog.Catalog(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, id := range cat.IDs() {
		price := cat[id]
		e.ObjStart()
		e.FieldStart("id")
		e.Str(id)
		e.FieldStart("price")
		e.RawStr(price.Amount().StringFixed(2))
		e.FieldStart("currency")
		e.Str(string(price.Currency()))
		e.FieldStart("formatted")
		e.Str(price.Format(h.locale))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, e.Bytes())
}

// listRates returns the exchange-rate table relative to the base currency.
func (h *Handler) listRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rates.Rates(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	currencies := make([]string, 0, len(rates))
	for currency := range rates {
		currencies = append(currencies, string(currency))
	}
	sort.Strings(currencies)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("rates")
	e.ObjStart()
	for _, currency := range currencies {
		e.FieldStart(currency)
		e.RawStr(rates[money.Currency(currency)].String())
	}
	e.ObjEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, e.Bytes())
}

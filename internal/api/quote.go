package api

import (
	"io"
	"net/http"
	"sort"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/mkarpis/palette-pricing/internal/domain/money"
	"github.com/mkarpis/palette-pricing/internal/domain/order"
)

// quoteRequest is the decoded POST /api/quotes body.
type quoteRequest struct {
	memberID string
	currency string
	items    map[string]int
}

func (q *quoteRequest) decode(r io.Reader) error {
	q.items = make(map[string]int)
	d := jx.Decode(r, 4096)
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "member_id":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			q.memberID = v
			return err
		case "currency":
			v, err := d.Str()
			q.currency = v
			return err
		case "items":
			return d.Obj(func(d *jx.Decoder, id string) error {
				quantity, err := d.Int()
				if err != nil {
					return err
				}
				q.items[id] = quantity
				return nil
			})
		default:
			return d.Skip()
		}
	})
}

// createQuote prices an order built from the request body and returns the
// full quote: subtotal, per-item discount entries, total discount, and total.
func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := req.decode(r.Body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.currency == "" {
		writeError(w, http.StatusBadRequest, "currency is required")
		return
	}

	o := order.New(req.memberID, money.Currency(req.currency))
	for id, quantity := range req.items {
		o.SetItem(id, quantity)
	}

	quote, err := h.pricer.Price(r.Context(), o)
	if err != nil {
		var ucErr *money.UnknownCurrencyError
		if errors.As(err, &ucErr) {
			writeError(w, http.StatusUnprocessableEntity, ucErr.Error())
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, encodeQuote(quote))
}

func encodeQuote(quote *order.Quote) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(uuid.New().String())
	e.FieldStart("currency")
	e.Str(string(quote.Currency))
	e.FieldStart("total_quantity")
	e.Int(quote.TotalQuantity)
	e.FieldStart("subtotal")
	e.RawStr(quote.Subtotal.Amount().StringFixed(2))
	e.FieldStart("total_discount")
	e.RawStr(quote.TotalDiscount.Amount().StringFixed(2))
	e.FieldStart("total")
	e.RawStr(quote.Total.Amount().StringFixed(2))

	ids := make([]string, 0, len(quote.Discounts))
	for id := range quote.Discounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	e.FieldStart("discounts")
	e.ObjStart()
	for _, id := range ids {
		e.FieldStart(id)
		e.ArrStart()
		for _, entry := range quote.Discounts[id] {
			e.ObjStart()
			e.FieldStart("amount")
			e.RawStr(entry.Amount().StringFixed(2))
			e.FieldStart("currency")
			e.Str(string(entry.Currency()))
			e.ObjEnd()
		}
		e.ArrEnd()
	}
	e.ObjEnd()
	e.ObjEnd()

	return e.Bytes()
}

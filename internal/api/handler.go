// Package api exposes the pricing engine over HTTP: the item catalog, the
// exchange-rate table, and a quote endpoint that prices an order.
package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/mkarpis/palette-pricing/internal/domain/catalog"
	"github.com/mkarpis/palette-pricing/internal/domain/money"
	"github.com/mkarpis/palette-pricing/internal/domain/order"
)

// Handler serves the pricing API, delegating calculation to the order Pricer
// and reading the catalog and rate table from their sources.
type Handler struct {
	catalog catalog.Source
	rates   money.RateSource
	pricer  *order.Pricer
	locale  language.Tag
}

// NewHandler constructs a Handler. locale controls price formatting in
// catalog responses.
func NewHandler(cat catalog.Source, rates money.RateSource, pricer *order.Pricer, locale language.Tag) *Handler {
	return &Handler{
		catalog: cat,
		rates:   rates,
		pricer:  pricer,
		locale:  locale,
	}
}

// Register mounts all API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items", h.listItems)
	mux.HandleFunc("GET /api/rates", h.listRates)
	mux.HandleFunc("POST /api/quotes", h.createQuote)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, e.Bytes())
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/investsim/feed"
	"github.com/rustyeddy/investsim/portfolio"
	"github.com/rustyeddy/investsim/store"
)

// Reader is the slice of the store the dashboard reads from.
type Reader interface {
	Balance(ctx context.Context, profileID string) (float64, error)
	Positions(ctx context.Context, profileID string) ([]portfolio.Position, error)
	Transactions(ctx context.Context, profileID string) ([]portfolio.Transaction, error)
}

// Quotes is the live quote lookup.
type Quotes interface {
	Get(assetID string) (feed.Quote, error)
}

type Handler struct {
	reader Reader
	quotes Quotes
}

func NewHandler(reader Reader, quotes Quotes) *Handler {
	return &Handler{reader: reader, quotes: quotes}
}

type positionJSON struct {
	AssetID  string  `json:"asset_id"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	AvgCost  float64 `json:"avg_cost"`
}

type portfolioJSON struct {
	ProfileID string         `json:"profile_id"`
	Balance   float64        `json:"balance"`
	Positions []positionJSON `json:"positions"`
}

// Portfolio returns the profile's balance and open positions.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	balance, err := h.reader.Balance(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	positions, err := h.reader.Positions(r.Context(), profileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	out := portfolioJSON{ProfileID: profileID, Balance: balance, Positions: []positionJSON{}}
	for _, p := range positions {
		out.Positions = append(out.Positions, positionJSON{
			AssetID:  p.AssetID,
			Name:     p.Name,
			Symbol:   p.Symbol,
			Quantity: p.Quantity,
			AvgCost:  p.AvgCost,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type transactionJSON struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"asset_id"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  float64   `json:"quantity"`
	DealValue float64   `json:"deal_value"`
	Time      time.Time `json:"time"`
}

// History returns the profile's trade history, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	// Confirm the profile exists so unknown ids are a 404, not an empty list.
	if _, err := h.reader.Balance(r.Context(), profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	txs, err := h.reader.Transactions(r.Context(), profileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionJSON{
			ID:        t.ID,
			AssetID:   t.AssetID,
			Symbol:    t.Symbol,
			Side:      t.Side.String(),
			UnitPrice: t.UnitPrice,
			Quantity:  t.Quantity,
			DealValue: t.DealValue,
			Time:      t.Time,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type quoteJSON struct {
	AssetID string    `json:"asset_id"`
	Price   float64   `json:"price"`
	Time    time.Time `json:"time"`
}

// Quote returns the most recently polled quote for an asset.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	q, err := h.quotes.Get(assetID)
	if err != nil {
		if errors.Is(err, feed.ErrNoQuote) {
			writeError(w, http.StatusNotFound, "no_quote", "no quote observed for asset")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quoteJSON{AssetID: q.AssetID, Price: q.Price, Time: q.Time})
}

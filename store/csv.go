package store

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/investsim/portfolio"
)

// WriteTransactionsCSV writes the trade history to w in CSV form, one row per
// transaction plus a header.
func WriteTransactionsCSV(w io.Writer, txs []portfolio.Transaction) error {
	cw := csv.NewWriter(w)

	header := []string{"transaction_id", "asset_id", "name", "symbol", "side", "unit_price", "quantity", "deal_value", "time"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range txs {
		rec := []string{
			t.ID,
			t.AssetID,
			t.Name,
			t.Symbol,
			t.Side.String(),
			f(t.UnitPrice),
			f(t.Quantity),
			f(t.DealValue),
			t.Time.Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

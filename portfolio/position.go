package portfolio

import (
	"fmt"
	"time"
)

// Side is the direction of an executed trade.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide converts a stored side string back to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "Buy":
		return Buy, nil
	case "Sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

// AssetRef identifies a tradable asset plus its display metadata.
type AssetRef struct {
	ID     string
	Name   string
	Symbol string
}

// Position is the aggregate holding of one asset for one profile.
//
// A position only exists while Quantity > 0: selling a position down to zero
// deletes it instead of retaining a zero-quantity row.
type Position struct {
	AssetID  string
	Name     string
	Symbol   string
	Quantity float64
	AvgCost  float64 // weighted average unit cost basis
}

// Ref returns the asset reference carried by the position.
func (p Position) Ref() AssetRef {
	return AssetRef{ID: p.AssetID, Name: p.Name, Symbol: p.Symbol}
}

// Transaction is one executed trade. Records are append-only: once committed
// they are never mutated or deleted.
type Transaction struct {
	ID        string
	AssetID   string
	Name      string
	Symbol    string
	Side      Side
	UnitPrice float64
	Quantity  float64
	DealValue float64 // UnitPrice * Quantity
	Time      time.Time
}

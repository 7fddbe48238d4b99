package portfolio

// ApplyBuy computes the position and transaction resulting from buying qty
// units of asset at unitPrice. current is nil on the first buy of an asset.
//
// The returned transaction carries the trade economics only; the caller is
// responsible for stamping ID and Time before the trade is committed.
func ApplyBuy(current *Position, asset AssetRef, unitPrice, qty float64) (Position, Transaction) {
	var oldQty, oldAvg float64
	if current != nil {
		oldQty = current.Quantity
		oldAvg = current.AvgCost
	}

	pos := Position{
		AssetID:  asset.ID,
		Name:     asset.Name,
		Symbol:   asset.Symbol,
		Quantity: oldQty + qty,
		AvgCost:  (oldAvg*oldQty + unitPrice*qty) / (oldQty + qty),
	}

	return pos, Transaction{
		AssetID:   asset.ID,
		Name:      asset.Name,
		Symbol:    asset.Symbol,
		Side:      Buy,
		UnitPrice: unitPrice,
		Quantity:  qty,
		DealValue: unitPrice * qty,
	}
}

// ApplySell computes the result of selling qty units of an existing position
// at unitPrice. The caller must have already checked CanSell.
//
// A partial sell recomputes the remainder's cost basis as
// (oldAvg*oldQty - qty*unitPrice) / (oldQty - qty), so selling above or below
// basis shifts the recorded average cost of what is left. A full sell returns
// a nil position, meaning the position is deleted.
func ApplySell(current Position, unitPrice, qty float64) (*Position, Transaction) {
	tx := Transaction{
		AssetID:   current.AssetID,
		Name:      current.Name,
		Symbol:    current.Symbol,
		Side:      Sell,
		UnitPrice: unitPrice,
		Quantity:  qty,
		DealValue: unitPrice * qty,
	}

	if qty >= current.Quantity {
		return nil, tx
	}

	pos := Position{
		AssetID:  current.AssetID,
		Name:     current.Name,
		Symbol:   current.Symbol,
		Quantity: current.Quantity - qty,
		AvgCost:  (current.AvgCost*current.Quantity - qty*unitPrice) / (current.Quantity - qty),
	}
	return &pos, tx
}

package portfolio

// CanBuy reports whether balance covers buying qty units at unitPrice.
// The check is strictly greater-than: a trade that would exactly zero the
// balance is rejected.
func CanBuy(balance, unitPrice, qty float64) bool {
	return balance > 0 && balance > unitPrice*qty
}

// CanSell reports whether the position holds enough units to sell qty.
func CanSell(pos Position, qty float64) bool {
	return qty <= pos.Quantity
}

package domain

import "strconv"

// Trade is an immutable execution record between two agents. Trades
// are appended once to the run's time-ordered log and never mutated
// or removed.
type Trade struct {
	Time      int64
	Price     float64
	Quantity  int64
	BuyAgent  int64
	SellAgent int64
}

// TradeHeader lists the column names of a flattened trade record.
func TradeHeader() []string {
	return []string{"time", "price", "quantity", "buy_agent", "sell_agent"}
}

// Record flattens the trade into strings for tabular output.
func (t Trade) Record() []string {
	return []string{
		strconv.FormatInt(t.Time, 10),
		FormatPrice(t.Price),
		strconv.FormatInt(t.Quantity, 10),
		strconv.FormatInt(t.BuyAgent, 10),
		strconv.FormatInt(t.SellAgent, 10),
	}
}

package store

import "marketsim/internal/domain"

// TradeLog is the run-scoped, append-only record of executions in
// chronological order. One run owns exactly one log; entries are never
// mutated or removed.
type TradeLog struct {
	trades []domain.Trade
}

// NewTradeLog creates an empty TradeLog.
func NewTradeLog() *TradeLog {
	return &TradeLog{trades: make([]domain.Trade, 0)}
}

// Append adds trades to the log in execution order.
func (l *TradeLog) Append(trades ...domain.Trade) {
	l.trades = append(l.trades, trades...)
}

// All returns every trade in chronological order. Returns a copy to
// avoid callers mutating the internal slice.
func (l *TradeLog) All() []domain.Trade {
	result := make([]domain.Trade, len(l.trades))
	copy(result, l.trades)
	return result
}

// Len returns the number of trades recorded so far.
func (l *TradeLog) Len() int {
	return len(l.trades)
}

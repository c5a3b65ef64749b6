package agent

import "marketsim/internal/domain"

// Fill is one execution applied to a ledger, as seen from the owning
// agent's side of the trade.
type Fill struct {
	Price    float64
	Quantity int64
	Side     domain.Side
}

// Ledger tracks an agent's cash, signed position, and own execution
// history across a run. It changes only through Apply, as the
// orchestrator reconciles trades tick by tick.
type Ledger struct {
	Cash     float64
	Position int64
	History  []Fill
}

// Apply records an execution. A buy raises the position and pays
// price x quantity in cash; a sell is the mirror image.
func (l *Ledger) Apply(price float64, quantity int64, side domain.Side) {
	if side == domain.SideBuy {
		l.Position += quantity
		l.Cash -= price * float64(quantity)
	} else {
		l.Position -= quantity
		l.Cash += price * float64(quantity)
	}
	l.History = append(l.History, Fill{Price: price, Quantity: quantity, Side: side})
}

// Equity values the ledger with the position marked at the given
// reference price.
func (l *Ledger) Equity(price float64) float64 {
	return l.Cash + float64(l.Position)*price
}

// NumTrades reports how many executions the ledger has absorbed.
func (l *Ledger) NumTrades() int {
	return len(l.History)
}

package engine

import (
	"marketsim/internal/domain"
	"marketsim/internal/store"
)

// Engine executes continuous price-time-priority matching for a single
// instrument and records resulting trades. Matching and cancellation
// are total over well-formed input: they always terminate and always
// leave the book uncrossed, so neither fails at runtime.
type Engine struct {
	book   *Book
	trades *store.TradeLog
}

// NewEngine creates a matching engine with an empty book and trade log.
func NewEngine() *Engine {
	return &Engine{
		book:   NewBook(),
		trades: store.NewTradeLog(),
	}
}

// Process runs an incoming order through the matching loop and returns
// the trades it produced, appended to the run's trade log in the same
// order.
//
// While the order has unfilled quantity and the best opposing price is
// compatible (buy ≥ best ask, sell ≤ best bid; any price for market
// orders), it fills against the earliest-arrived resting order at the
// best opposing price. Each pairing trades at the resting order's
// quoted price. A fully filled resting order is removed; a partially
// filled one keeps its queue position with its quantity reduced in
// place. An unfilled limit remainder rests on the order's own side
// behind earlier same-price arrivals. An unfilled market remainder is
// dropped: insufficient opposing liquidity is a modeled outcome, not
// an error, and an empty opposite side yields no trades.
func (e *Engine) Process(order *domain.Order) ([]domain.Trade, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	var trades []domain.Trade

	for order.Quantity > 0 {
		best, found := e.bestOpposite(order.Side)
		if !found {
			break
		}
		if !order.IsMarket && !priceCompatible(order.Side, order.Price, best.Price) {
			break
		}

		resting := best.Order

		fillQty := order.Quantity
		if resting.Quantity < fillQty {
			fillQty = resting.Quantity
		}

		trade := domain.Trade{
			Time:     order.Time,
			Price:    best.Price,
			Quantity: fillQty,
		}
		if order.Side == domain.SideBuy {
			trade.BuyAgent = order.AgentID
			trade.SellAgent = resting.AgentID
		} else {
			trade.BuyAgent = resting.AgentID
			trade.SellAgent = order.AgentID
		}
		trades = append(trades, trade)

		order.Quantity -= fillQty
		resting.Quantity -= fillQty

		if resting.Quantity == 0 {
			e.book.Remove(resting.ID)
		}
	}

	if order.Quantity > 0 && !order.IsMarket {
		e.book.Insert(order)
	}

	e.trades.Append(trades...)
	return trades, nil
}

func (e *Engine) bestOpposite(side domain.Side) (BookEntry, bool) {
	if side == domain.SideBuy {
		return e.book.BestAsk()
	}
	return e.book.BestBid()
}

// priceCompatible reports whether a limit order at price may trade
// against the best opposing price.
func priceCompatible(side domain.Side, price, oppositeBest float64) bool {
	if side == domain.SideBuy {
		return price >= oppositeBest
	}
	return price <= oppositeBest
}

// CancelAgentOrders removes every resting order on both sides belonging
// to the agent. No-op, not an error, when the agent has none resting.
// The trade log is untouched, and cancelling twice equals cancelling
// once.
func (e *Engine) CancelAgentOrders(agentID int64) {
	e.book.RemoveAgentOrders(agentID)
}

// MidPrice returns the average of best bid and best ask when both sides
// are populated. A one-sided book averages the populated side's best
// price with the reference value; an empty book returns the reference
// unchanged. Callers always receive a finite price, however thin the
// book.
func (e *Engine) MidPrice(reference float64) float64 {
	bid, hasBid := e.book.BestBid()
	ask, hasAsk := e.book.BestAsk()
	switch {
	case hasBid && hasAsk:
		return (bid.Price + ask.Price) / 2
	case hasBid:
		return (bid.Price + reference) / 2
	case hasAsk:
		return (ask.Price + reference) / 2
	default:
		return reference
	}
}

// BestBid returns the best resting bid price, if any.
func (e *Engine) BestBid() (float64, bool) {
	entry, ok := e.book.BestBid()
	if !ok {
		return 0, false
	}
	return entry.Price, true
}

// BestAsk returns the best resting ask price, if any.
func (e *Engine) BestAsk() (float64, bool) {
	entry, ok := e.book.BestAsk()
	if !ok {
		return 0, false
	}
	return entry.Price, true
}

// Bids returns snapshots of the resting bids in priority order.
func (e *Engine) Bids() []domain.Order {
	return e.book.Bids()
}

// Asks returns snapshots of the resting asks in priority order.
func (e *Engine) Asks() []domain.Order {
	return e.book.Asks()
}

// BidCount returns the number of resting bid orders.
func (e *Engine) BidCount() int {
	return e.book.BidCount()
}

// AskCount returns the number of resting ask orders.
func (e *Engine) AskCount() int {
	return e.book.AskCount()
}

// TopBids returns up to n aggregated bid price levels, best first.
func (e *Engine) TopBids(n int) []PriceLevel {
	return e.book.TopBids(n)
}

// TopAsks returns up to n aggregated ask price levels, best first.
func (e *Engine) TopAsks(n int) []PriceLevel {
	return e.book.TopAsks(n)
}

// Trades returns the full trade log in execution order.
func (e *Engine) Trades() []domain.Trade {
	return e.trades.All()
}

// TradeCount returns the number of trades executed so far.
func (e *Engine) TradeCount() int {
	return e.trades.Len()
}

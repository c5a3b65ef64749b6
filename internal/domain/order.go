package domain

// Side indicates whether an order buys or sells.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Opposite returns the side a matching counterparty trades on.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Order is a validated instruction to trade, stamped with a run-wide
// id and submission tick by the orchestrator. Limit orders rest on the
// book until fully filled or cancelled; market orders never rest.
// Quantity is the unfilled remainder and is reduced in place while the
// order matches.
type Order struct {
	ID       int64
	Time     int64
	AgentID  int64
	Side     Side
	Price    float64 // 0 for market orders
	Quantity int64
	IsMarket bool
}

// Validate checks the order's shape. A malformed order is a programming
// defect in the emitting agent, not a recoverable condition.
func (o *Order) Validate() error {
	if o.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "must be positive"}
	}
	if o.Time < 0 {
		return &ValidationError{Field: "time", Reason: "must not be negative"}
	}
	return validateShape(o.Side, o.Price, o.Quantity, o.IsMarket)
}

// OrderRequest is the pre-id, pre-timestamp form of an order emitted by
// an agent during its step. The orchestrator validates it and stamps id,
// tick and the stepping agent's id before submission.
type OrderRequest struct {
	AgentID  int64
	Side     Side
	Price    float64 // 0 for market orders
	Quantity int64
	IsMarket bool
}

// Validate checks the request's shape: known side, positive quantity,
// and a positive price exactly when the request is not a market order.
func (r OrderRequest) Validate() error {
	return validateShape(r.Side, r.Price, r.Quantity, r.IsMarket)
}

func validateShape(side Side, price float64, quantity int64, isMarket bool) error {
	if !side.Valid() {
		return &ValidationError{Field: "side", Reason: `must be "BUY" or "SELL"`}
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if isMarket {
		if price != 0 {
			return &ValidationError{Field: "price", Reason: "market orders must not carry a price"}
		}
		return nil
	}
	if price <= 0 {
		return &ValidationError{Field: "price", Reason: "limit orders require a positive price"}
	}
	return nil
}

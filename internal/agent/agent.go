package agent

import (
	"math/rand"

	"marketsim/internal/domain"
)

// Agent type labels used for downstream feature extraction.
const (
	TypeMarketMaker = "MM"
	TypeNoise       = "NOISE"
	TypeProp        = "PROP"
	TypeInsider     = "INSIDER"
)

// Illegal-activity labels carried by insider and manipulator agents.
const (
	IllegalEventInsider   = "event_insider"
	IllegalSlowInsider    = "slow_insider"
	IllegalStealthInsider = "stealth_insider"
	IllegalPumpAndDump    = "pump_and_dump"
)

// BookView is the surface the matching engine exposes to agents during
// a step: top-of-book state plus cancellation of the agent's own
// resting orders. Agents never mutate the book directly.
type BookView interface {
	BestBid() (float64, bool)
	BestAsk() (float64, bool)
	BidCount() int
	AskCount() int
	CancelAgentOrders(agentID int64)
}

// Agent is the uniform contract every market participant implements.
// Step may read the book and emit order requests for the current tick;
// OnTrade applies one side of an execution to the agent's ledger. The
// orchestrator depends only on this contract, never on concrete policy
// logic.
type Agent interface {
	ID() int64
	Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest
	OnTrade(price float64, quantity int64, side domain.Side)
	Ledger() *Ledger
	Meta() Meta
}

// Meta carries an agent's classification and labels for dataset
// generation.
type Meta struct {
	Type        string
	IsIllegal   bool
	IllegalType string
	GroupID     int64 // 0 = not part of a coordinated group
}

// base provides the identity, private random stream, ledger, and
// labeling shared by every agent implementation through composition.
type base struct {
	id     int64
	rng    *rand.Rand
	ledger Ledger
	meta   Meta
}

func (b *base) ID() int64 {
	return b.id
}

func (b *base) Ledger() *Ledger {
	return &b.ledger
}

func (b *base) Meta() Meta {
	return b.meta
}

func (b *base) OnTrade(price float64, quantity int64, side domain.Side) {
	b.ledger.Apply(price, quantity, side)
}

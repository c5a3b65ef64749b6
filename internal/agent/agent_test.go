package agent

import (
	"testing"

	"marketsim/internal/domain"
)

// Compile-time checks that every policy satisfies the Agent contract.
var (
	_ Agent = (*MarketMaker)(nil)
	_ Agent = (*NoiseTrader)(nil)
	_ Agent = (*PropTrader)(nil)
	_ Agent = (*EventInsider)(nil)
	_ Agent = (*SlowInsider)(nil)
	_ Agent = (*StealthInsider)(nil)
	_ Agent = (*PumpAndDump)(nil)
)

// stubBook is a minimal BookView for exercising policies without a
// live matching engine.
type stubBook struct {
	bid, ask       float64
	hasBid, hasAsk bool
	cancelled      []int64
}

func (s *stubBook) BestBid() (float64, bool) { return s.bid, s.hasBid }
func (s *stubBook) BestAsk() (float64, bool) { return s.ask, s.hasAsk }

func (s *stubBook) BidCount() int {
	if s.hasBid {
		return 1
	}
	return 0
}

func (s *stubBook) AskCount() int {
	if s.hasAsk {
		return 1
	}
	return 0
}

func (s *stubBook) CancelAgentOrders(agentID int64) {
	s.cancelled = append(s.cancelled, agentID)
}

// mustValidRequests fails the test if any request is malformed or
// stamped with the wrong agent id.
func mustValidRequests(t *testing.T, reqs []domain.OrderRequest, agentID int64) {
	t.Helper()
	for i, req := range reqs {
		if err := req.Validate(); err != nil {
			t.Fatalf("request %d invalid: %v", i, err)
		}
		if req.AgentID != agentID {
			t.Fatalf("request %d agent = %d, want %d", i, req.AgentID, agentID)
		}
	}
}

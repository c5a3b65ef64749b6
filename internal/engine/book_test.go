package engine

import (
	"testing"

	"marketsim/internal/domain"
)

// helper to create a BookEntry with a minimal Order.
func makeEntry(price float64, orderID, agentID int64, quantity int64) BookEntry {
	side := domain.SideBuy
	return BookEntry{
		Price:   price,
		OrderID: orderID,
		Order: &domain.Order{
			ID:       orderID,
			AgentID:  agentID,
			Side:     side,
			Price:    price,
			Quantity: quantity,
		},
	}
}

func TestBidLess_PriceDescending(t *testing.T) {
	a := makeEntry(200, 1, 1, 1)
	b := makeEntry(100, 2, 1, 1)
	// Higher price should come first (be "less" in bid ordering).
	if !bidLess(a, b) {
		t.Error("expected higher price to be less on bid side")
	}
	if bidLess(b, a) {
		t.Error("expected lower price to not be less on bid side")
	}
}

func TestBidLess_OrderIDAscending(t *testing.T) {
	a := makeEntry(100, 1, 1, 1)
	b := makeEntry(100, 2, 1, 1)
	if !bidLess(a, b) {
		t.Error("expected earlier id to be less on bid side at same price")
	}
	if bidLess(b, a) {
		t.Error("expected later id to not be less on bid side at same price")
	}
}

func TestAskLess_PriceAscending(t *testing.T) {
	a := makeEntry(100, 1, 1, 1)
	b := makeEntry(200, 2, 1, 1)
	if !askLess(a, b) {
		t.Error("expected lower price to be less on ask side")
	}
	if askLess(b, a) {
		t.Error("expected higher price to not be less on ask side")
	}
}

func TestAskLess_OrderIDAscending(t *testing.T) {
	a := makeEntry(100, 1, 1, 1)
	b := makeEntry(100, 2, 1, 1)
	if !askLess(a, b) {
		t.Error("expected earlier id to be less on ask side at same price")
	}
	if askLess(b, a) {
		t.Error("expected later id to not be less on ask side at same price")
	}
}

func restingOrder(id, agentID int64, side domain.Side, price float64, qty int64) *domain.Order {
	return &domain.Order{
		ID:       id,
		Time:     0,
		AgentID:  agentID,
		Side:     side,
		Price:    price,
		Quantity: qty,
	}
}

func TestBook_InsertAndBest(t *testing.T) {
	b := NewBook()

	b.Insert(restingOrder(1, 10, domain.SideBuy, 99.0, 5))
	b.Insert(restingOrder(2, 11, domain.SideBuy, 100.0, 5))
	b.Insert(restingOrder(3, 12, domain.SideSell, 102.0, 5))
	b.Insert(restingOrder(4, 13, domain.SideSell, 101.0, 5))

	bid, ok := b.BestBid()
	if !ok || bid.Price != 100.0 {
		t.Errorf("BestBid() = %v, %v; want price 100.0", bid.Price, ok)
	}
	ask, ok := b.BestAsk()
	if !ok || ask.Price != 101.0 {
		t.Errorf("BestAsk() = %v, %v; want price 101.0", ask.Price, ok)
	}
	if b.BidCount() != 2 || b.AskCount() != 2 {
		t.Errorf("counts = (%d, %d), want (2, 2)", b.BidCount(), b.AskCount())
	}
}

func TestBook_Remove(t *testing.T) {
	b := NewBook()
	b.Insert(restingOrder(1, 10, domain.SideBuy, 100.0, 5))
	b.Insert(restingOrder(2, 10, domain.SideSell, 101.0, 5))

	b.Remove(1)
	if b.BidCount() != 0 {
		t.Errorf("BidCount() = %d after remove, want 0", b.BidCount())
	}
	if b.AskCount() != 1 {
		t.Errorf("AskCount() = %d, want 1", b.AskCount())
	}

	// Removing an unknown id is a no-op.
	b.Remove(999)
	if b.AskCount() != 1 {
		t.Errorf("AskCount() = %d after unknown remove, want 1", b.AskCount())
	}
}

func TestBook_RemoveAgentOrders(t *testing.T) {
	b := NewBook()
	b.Insert(restingOrder(1, 10, domain.SideBuy, 100.0, 5))
	b.Insert(restingOrder(2, 10, domain.SideSell, 102.0, 5))
	b.Insert(restingOrder(3, 20, domain.SideBuy, 99.0, 5))

	b.RemoveAgentOrders(10)

	if b.BidCount() != 1 {
		t.Errorf("BidCount() = %d, want 1 (agent 20's bid survives)", b.BidCount())
	}
	if b.AskCount() != 0 {
		t.Errorf("AskCount() = %d, want 0", b.AskCount())
	}
	bid, _ := b.BestBid()
	if bid.Order.AgentID != 20 {
		t.Errorf("surviving bid belongs to agent %d, want 20", bid.Order.AgentID)
	}

	// Cancelling again is a no-op.
	b.RemoveAgentOrders(10)
	if b.BidCount() != 1 || b.AskCount() != 0 {
		t.Errorf("second cancel changed the book: (%d, %d)", b.BidCount(), b.AskCount())
	}
}

func TestBook_SnapshotsInPriorityOrder(t *testing.T) {
	b := NewBook()
	b.Insert(restingOrder(1, 10, domain.SideSell, 103.0, 1))
	b.Insert(restingOrder(2, 11, domain.SideSell, 101.0, 2))
	b.Insert(restingOrder(3, 12, domain.SideSell, 102.0, 3))
	b.Insert(restingOrder(4, 13, domain.SideBuy, 99.0, 4))
	b.Insert(restingOrder(5, 14, domain.SideBuy, 100.0, 5))

	asks := b.Asks()
	if len(asks) != 3 {
		t.Fatalf("len(Asks()) = %d, want 3", len(asks))
	}
	if asks[0].Price != 101.0 || asks[1].Price != 102.0 || asks[2].Price != 103.0 {
		t.Errorf("asks not in price-ascending order: %v, %v, %v", asks[0].Price, asks[1].Price, asks[2].Price)
	}

	bids := b.Bids()
	if len(bids) != 2 {
		t.Fatalf("len(Bids()) = %d, want 2", len(bids))
	}
	if bids[0].Price != 100.0 || bids[1].Price != 99.0 {
		t.Errorf("bids not in price-descending order: %v, %v", bids[0].Price, bids[1].Price)
	}
}

func TestBook_TopLevelsAggregation(t *testing.T) {
	b := NewBook()
	b.Insert(restingOrder(1, 10, domain.SideSell, 101.0, 5))
	b.Insert(restingOrder(2, 11, domain.SideSell, 101.0, 3))
	b.Insert(restingOrder(3, 12, domain.SideSell, 102.0, 7))

	levels := b.TopAsks(10)
	if len(levels) != 2 {
		t.Fatalf("len(TopAsks(10)) = %d, want 2", len(levels))
	}
	if levels[0].Price != 101.0 || levels[0].TotalQuantity != 8 || levels[0].OrderCount != 2 {
		t.Errorf("level 0 = %+v, want price 101.0 qty 8 count 2", levels[0])
	}
	if levels[1].Price != 102.0 || levels[1].TotalQuantity != 7 || levels[1].OrderCount != 1 {
		t.Errorf("level 1 = %+v, want price 102.0 qty 7 count 1", levels[1])
	}

	if got := b.TopAsks(1); len(got) != 1 {
		t.Errorf("len(TopAsks(1)) = %d, want 1", len(got))
	}
	if got := b.TopAsks(0); got != nil {
		t.Errorf("TopAsks(0) = %v, want nil", got)
	}
}

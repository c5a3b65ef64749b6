package agent

import (
	"math/rand"
	"testing"

	"marketsim/internal/domain"
)

func TestUnwindTarget(t *testing.T) {
	tests := []struct {
		name      string
		direction int
		position  int64
		size      int64
		wantSide  domain.Side
		wantQty   int64
		wantOK    bool
	}{
		{"long position unwinds by selling", 1, 20, 8, domain.SideSell, 8, true},
		{"long position caps at remaining", 1, 3, 8, domain.SideSell, 3, true},
		{"short position unwinds by buying", -1, -20, 8, domain.SideBuy, 8, true},
		{"short position caps at remaining", -1, -2, 8, domain.SideBuy, 2, true},
		{"flat position has nothing to unwind", 1, 0, 8, "", 0, false},
		{"position against long direction left alone", 1, -5, 8, "", 0, false},
		{"position against short direction left alone", -1, 5, 8, "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, qty, ok := unwindTarget(tt.direction, tt.position, tt.size)
			if side != tt.wantSide || qty != tt.wantQty || ok != tt.wantOK {
				t.Errorf("got (%q, %d, %v), want (%q, %d, %v)",
					side, qty, ok, tt.wantSide, tt.wantQty, tt.wantOK)
			}
		})
	}
}

func newTestEventInsider(direction int) *EventInsider {
	return NewEventInsider(5, rand.New(rand.NewSource(1)), EventInsiderParams{
		EventTime:     500,
		Direction:     direction,
		StartTime:     440,
		TradeSize:     8,
		UnwindHorizon: 80,
		GroupID:       77,
	})
}

func TestEventInsider_Labels(t *testing.T) {
	meta := newTestEventInsider(1).Meta()

	if meta.Type != TypeInsider || !meta.IsIllegal {
		t.Errorf("meta = %+v, want illegal INSIDER", meta)
	}
	if meta.IllegalType != IllegalEventInsider {
		t.Errorf("illegal type = %q, want %q", meta.IllegalType, IllegalEventInsider)
	}
	if meta.GroupID != 77 {
		t.Errorf("group = %d, want 77", meta.GroupID)
	}
}

func TestEventInsider_QuietBeforeWindow(t *testing.T) {
	a := newTestEventInsider(1)

	for tick := int64(0); tick < 440; tick += 20 {
		if reqs := a.Step(tick, &stubBook{}, 100, 100); len(reqs) != 0 {
			t.Fatalf("tick %d: got %d requests, want none", tick, len(reqs))
		}
	}
}

func TestEventInsider_AccumulatesInJumpDirection(t *testing.T) {
	a := newTestEventInsider(1)

	for tick := int64(440); tick < 500; tick++ {
		reqs := a.Step(tick, &stubBook{}, 100, 100)
		if len(reqs) != 1 {
			t.Fatalf("tick %d: requests = %d, want 1", tick, len(reqs))
		}
		mustValidRequests(t, reqs, 5)
		if reqs[0].Side != domain.SideBuy {
			t.Fatalf("tick %d: side = %s, want BUY", tick, reqs[0].Side)
		}
		if reqs[0].Quantity != 8 {
			t.Fatalf("tick %d: quantity = %d, want 8", tick, reqs[0].Quantity)
		}
	}
}

func TestEventInsider_UnwindSellsLongWithMarketOrders(t *testing.T) {
	a := newTestEventInsider(1)
	a.Ledger().Apply(100, 20, domain.SideBuy)

	reqs := a.Step(500, &stubBook{}, 100, 100)

	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	req := reqs[0]
	if req.Side != domain.SideSell || !req.IsMarket {
		t.Errorf("got %+v, want SELL market order", req)
	}
	if req.Quantity != 8 {
		t.Errorf("quantity = %d, want 8", req.Quantity)
	}
}

func TestEventInsider_UnwindCapsAtRemainingPosition(t *testing.T) {
	a := newTestEventInsider(1)
	a.Ledger().Apply(100, 3, domain.SideBuy)

	reqs := a.Step(500, &stubBook{}, 100, 100)

	if len(reqs) != 1 || reqs[0].Quantity != 3 {
		t.Fatalf("got %v, want one request of quantity 3", reqs)
	}
}

func TestEventInsider_UnwindIdleWhenFlat(t *testing.T) {
	a := newTestEventInsider(1)

	if reqs := a.Step(500, &stubBook{}, 100, 100); len(reqs) != 0 {
		t.Fatalf("flat insider emitted %d requests, want none", len(reqs))
	}
}

func TestEventInsider_ShortDirectionUnwindBuysBack(t *testing.T) {
	a := newTestEventInsider(-1)
	a.Ledger().Apply(100, 20, domain.SideSell)

	reqs := a.Step(500, &stubBook{}, 100, 100)

	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].Side != domain.SideBuy || !reqs[0].IsMarket {
		t.Errorf("got %+v, want BUY market order", reqs[0])
	}
}

func TestEventInsider_QuietAfterUnwindWindow(t *testing.T) {
	a := newTestEventInsider(1)
	a.Ledger().Apply(100, 20, domain.SideBuy)

	if reqs := a.Step(580, &stubBook{}, 100, 100); len(reqs) != 0 {
		t.Fatalf("got %d requests after unwind window, want none", len(reqs))
	}
}

func newTestSlowInsider(pTradePre float64) *SlowInsider {
	return NewSlowInsider(6, rand.New(rand.NewSource(3)), SlowInsiderParams{
		EventTime:     600,
		Direction:     -1,
		StartTime:     300,
		MaxTradeSize:  5,
		PTradePre:     pTradePre,
		UnwindHorizon: 100,
	})
}

func TestSlowInsider_Labels(t *testing.T) {
	meta := newTestSlowInsider(0.3).Meta()

	if meta.IllegalType != IllegalSlowInsider {
		t.Errorf("illegal type = %q, want %q", meta.IllegalType, IllegalSlowInsider)
	}
	if meta.GroupID != 0 {
		t.Errorf("group = %d, want 0", meta.GroupID)
	}
}

func TestSlowInsider_PreEventOrdersMatchDirection(t *testing.T) {
	a := newTestSlowInsider(1)

	for tick := int64(300); tick < 600; tick++ {
		reqs := a.Step(tick, &stubBook{}, 100, 100)
		if len(reqs) != 1 {
			t.Fatalf("tick %d: requests = %d, want 1", tick, len(reqs))
		}
		mustValidRequests(t, reqs, 6)
		if reqs[0].Side != domain.SideSell {
			t.Fatalf("tick %d: side = %s, want SELL", tick, reqs[0].Side)
		}
		if reqs[0].Quantity < 1 || reqs[0].Quantity > 5 {
			t.Fatalf("tick %d: quantity = %d, want 1..5", tick, reqs[0].Quantity)
		}
	}
}

func TestSlowInsider_SitsOutWithZeroPTradePre(t *testing.T) {
	a := newTestSlowInsider(0)

	for tick := int64(300); tick < 600; tick++ {
		if reqs := a.Step(tick, &stubBook{}, 100, 100); len(reqs) != 0 {
			t.Fatalf("tick %d: got %d requests, want none", tick, len(reqs))
		}
	}
}

func TestSlowInsider_UnwindReducesShortPosition(t *testing.T) {
	a := newTestSlowInsider(1)
	a.Ledger().Apply(100, 12, domain.SideSell)

	reqs := a.Step(600, &stubBook{}, 100, 100)

	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].Side != domain.SideBuy {
		t.Errorf("side = %s, want BUY", reqs[0].Side)
	}
	if reqs[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", reqs[0].Quantity)
	}
}

func newTestStealthInsider(decoyProb float64) *StealthInsider {
	return NewStealthInsider(7, rand.New(rand.NewSource(4)), StealthInsiderParams{
		EventTime:     600,
		Direction:     1,
		StartTime:     450,
		MaxTradeSize:  6,
		PTradePre:     1,
		DecoyProb:     decoyProb,
		UnwindHorizon: 90,
	})
}

func TestStealthInsider_Labels(t *testing.T) {
	meta := newTestStealthInsider(0.2).Meta()

	if meta.IllegalType != IllegalStealthInsider {
		t.Errorf("illegal type = %q, want %q", meta.IllegalType, IllegalStealthInsider)
	}
}

func TestStealthInsider_InformedSideWithoutDecoys(t *testing.T) {
	a := newTestStealthInsider(0)

	for tick := int64(450); tick < 600; tick++ {
		reqs := a.Step(tick, &stubBook{}, 100, 100)
		if len(reqs) != 1 {
			t.Fatalf("tick %d: requests = %d, want 1", tick, len(reqs))
		}
		if reqs[0].Side != domain.SideBuy {
			t.Fatalf("tick %d: side = %s, want BUY", tick, reqs[0].Side)
		}
	}
}

func TestStealthInsider_DecoysFlipSide(t *testing.T) {
	a := newTestStealthInsider(1)

	for tick := int64(450); tick < 600; tick++ {
		reqs := a.Step(tick, &stubBook{}, 100, 100)
		if len(reqs) != 1 {
			t.Fatalf("tick %d: requests = %d, want 1", tick, len(reqs))
		}
		mustValidRequests(t, reqs, 7)
		if reqs[0].Side != domain.SideSell {
			t.Fatalf("tick %d: side = %s, want SELL decoy", tick, reqs[0].Side)
		}
	}
}

func TestStealthInsider_UnwindUsesMarketOrdersOnly(t *testing.T) {
	a := newTestStealthInsider(0)
	a.Ledger().Apply(100, 10, domain.SideBuy)

	reqs := a.Step(600, &stubBook{}, 100, 100)

	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if !reqs[0].IsMarket || reqs[0].Side != domain.SideSell {
		t.Fatalf("got %+v, want SELL market order", reqs[0])
	}
}

func newTestPump() *PumpAndDump {
	return NewPumpAndDump(8, rand.New(rand.NewSource(6)), PumpAndDumpParams{
		StartTime:     100,
		Direction:     1,
		PumpHorizon:   50,
		UnwindHorizon: 60,
		TradeSize:     10,
		GroupID:       3,
	})
}

func TestPumpAndDump_Labels(t *testing.T) {
	meta := newTestPump().Meta()

	if meta.IllegalType != IllegalPumpAndDump {
		t.Errorf("illegal type = %q, want %q", meta.IllegalType, IllegalPumpAndDump)
	}
	if meta.GroupID != 3 {
		t.Errorf("group = %d, want 3", meta.GroupID)
	}
}

func TestPumpAndDump_PumpsInChosenDirection(t *testing.T) {
	a := newTestPump()

	if reqs := a.Step(50, &stubBook{}, 100, 100); len(reqs) != 0 {
		t.Fatalf("got %d requests before start, want none", len(reqs))
	}
	for tick := int64(100); tick < 150; tick++ {
		reqs := a.Step(tick, &stubBook{}, 100, 100)
		if len(reqs) != 1 {
			t.Fatalf("tick %d: requests = %d, want 1", tick, len(reqs))
		}
		mustValidRequests(t, reqs, 8)
		if reqs[0].Side != domain.SideBuy {
			t.Fatalf("tick %d: side = %s, want BUY", tick, reqs[0].Side)
		}
		if reqs[0].Quantity != 10 {
			t.Fatalf("tick %d: quantity = %d, want 10", tick, reqs[0].Quantity)
		}
	}
}

func TestPumpAndDump_DumpsAccumulatedPosition(t *testing.T) {
	a := newTestPump()
	a.Ledger().Apply(100, 25, domain.SideBuy)

	reqs := a.Step(150, &stubBook{}, 100, 100)

	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].Side != domain.SideSell || !reqs[0].IsMarket {
		t.Errorf("got %+v, want SELL market order", reqs[0])
	}
	if reqs[0].Quantity != 10 {
		t.Errorf("quantity = %d, want 10", reqs[0].Quantity)
	}
}

func TestPumpAndDump_QuietAfterUnwindWindow(t *testing.T) {
	a := newTestPump()
	a.Ledger().Apply(100, 25, domain.SideBuy)

	if reqs := a.Step(210, &stubBook{}, 100, 100); len(reqs) != 0 {
		t.Fatalf("got %d requests after unwind window, want none", len(reqs))
	}
}

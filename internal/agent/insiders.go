package agent

import (
	"math/rand"

	"marketsim/internal/domain"
)

// unwindTarget returns the side and quantity that moves an insider's
// position toward flat, capped at size. ok is false when there is
// nothing left to unwind in the informed direction.
func unwindTarget(direction int, position, size int64) (domain.Side, int64, bool) {
	switch {
	case direction > 0 && position > 0:
		qty := size
		if position < qty {
			qty = position
		}
		return domain.SideSell, qty, true
	case direction < 0 && position < 0:
		qty := size
		if -position < qty {
			qty = -position
		}
		return domain.SideBuy, qty, true
	default:
		return "", 0, false
	}
}

// informedSide maps a jump direction to the side that profits from it.
func informedSide(direction int) domain.Side {
	if direction > 0 {
		return domain.SideBuy
	}
	return domain.SideSell
}

// EventInsiderParams configures an EventInsider. Ring members are
// plain EventInsiders that share a GroupID.
type EventInsiderParams struct {
	EventTime     int64
	Direction     int
	StartTime     int64
	TradeSize     int64
	UnwindHorizon int64
	GroupID       int64
}

// EventInsider knows the time and direction of the fundamental jump
// ahead of the market. It accumulates steadily in the jump direction
// over a short pre-event window, then unwinds the position with market
// orders once the event has hit.
type EventInsider struct {
	base
	params EventInsiderParams
}

func NewEventInsider(id int64, rng *rand.Rand, params EventInsiderParams) *EventInsider {
	return &EventInsider{
		base: base{
			id:  id,
			rng: rng,
			meta: Meta{
				Type:        TypeInsider,
				IsIllegal:   true,
				IllegalType: IllegalEventInsider,
				GroupID:     params.GroupID,
			},
		},
		params: params,
	}
}

func (a *EventInsider) Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest {
	p := a.params
	if tick < p.StartTime {
		return nil
	}

	switch {
	case tick < p.EventTime:
		side := informedSide(p.Direction)
		isMarket := a.rng.Float64() < 0.3
		req := domain.OrderRequest{
			AgentID:  a.id,
			Side:     side,
			Quantity: p.TradeSize,
			IsMarket: isMarket,
		}
		if !isMarket {
			if side == domain.SideBuy {
				req.Price = domain.RoundPrice(mid * 1.001)
			} else {
				req.Price = domain.RoundPrice(mid * 0.999)
			}
		}
		return []domain.OrderRequest{req}

	case tick < p.EventTime+p.UnwindHorizon:
		side, qty, ok := unwindTarget(p.Direction, a.ledger.Position, p.TradeSize)
		if !ok {
			return nil
		}
		return []domain.OrderRequest{{
			AgentID:  a.id,
			Side:     side,
			Quantity: qty,
			IsMarket: true,
		}}

	default:
		return nil
	}
}

// SlowInsiderParams configures a SlowInsider.
type SlowInsiderParams struct {
	EventTime     int64
	Direction     int
	StartTime     int64
	MaxTradeSize  int64
	PTradePre     float64
	UnwindHorizon int64
}

// SlowInsider spreads its accumulation over a long pre-event window,
// trading only some ticks and mostly with passive limit orders, then
// unwinds at a similarly measured pace after the event.
type SlowInsider struct {
	base
	params SlowInsiderParams
}

func NewSlowInsider(id int64, rng *rand.Rand, params SlowInsiderParams) *SlowInsider {
	return &SlowInsider{
		base: base{
			id:  id,
			rng: rng,
			meta: Meta{
				Type:        TypeInsider,
				IsIllegal:   true,
				IllegalType: IllegalSlowInsider,
			},
		},
		params: params,
	}
}

func (a *SlowInsider) Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest {
	p := a.params
	if tick < p.StartTime {
		return nil
	}

	switch {
	case tick < p.EventTime:
		if a.rng.Float64() > p.PTradePre {
			return nil
		}
		side := informedSide(p.Direction)
		quantity := 1 + a.rng.Int63n(p.MaxTradeSize)
		isMarket := a.rng.Float64() < 0.1
		req := domain.OrderRequest{
			AgentID:  a.id,
			Side:     side,
			Quantity: quantity,
			IsMarket: isMarket,
		}
		if !isMarket {
			const spread = 0.0015
			if side == domain.SideBuy {
				req.Price = domain.RoundPrice(mid * (1 - spread))
			} else {
				req.Price = domain.RoundPrice(mid * (1 + spread))
			}
		}
		return []domain.OrderRequest{req}

	case tick < p.EventTime+p.UnwindHorizon:
		side, qty, ok := unwindTarget(p.Direction, a.ledger.Position, p.MaxTradeSize)
		if !ok {
			return nil
		}
		isMarket := a.rng.Float64() < 0.5
		req := domain.OrderRequest{
			AgentID:  a.id,
			Side:     side,
			Quantity: qty,
			IsMarket: isMarket,
		}
		if !isMarket {
			if side == domain.SideSell {
				req.Price = domain.RoundPrice(mid * 0.999)
			} else {
				req.Price = domain.RoundPrice(mid * 1.001)
			}
		}
		return []domain.OrderRequest{req}

	default:
		return nil
	}
}

// StealthInsiderParams configures a StealthInsider.
type StealthInsiderParams struct {
	EventTime     int64
	Direction     int
	StartTime     int64
	MaxTradeSize  int64
	PTradePre     float64
	DecoyProb     float64
	UnwindHorizon int64
}

// StealthInsider masks its accumulation by occasionally placing decoy
// orders on the wrong side of its information. Decoy limits sit
// further from the mid than informed ones, so they rest more and fill
// less. After the event it unwinds with market orders.
type StealthInsider struct {
	base
	params StealthInsiderParams
}

func NewStealthInsider(id int64, rng *rand.Rand, params StealthInsiderParams) *StealthInsider {
	return &StealthInsider{
		base: base{
			id:  id,
			rng: rng,
			meta: Meta{
				Type:        TypeInsider,
				IsIllegal:   true,
				IllegalType: IllegalStealthInsider,
			},
		},
		params: params,
	}
}

func (a *StealthInsider) Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest {
	p := a.params
	if tick < p.StartTime {
		return nil
	}

	switch {
	case tick < p.EventTime:
		if a.rng.Float64() > p.PTradePre {
			return nil
		}
		side := informedSide(p.Direction)
		isDecoy := a.rng.Float64() < p.DecoyProb
		if isDecoy {
			side = side.Opposite()
		}
		quantity := 1 + a.rng.Int63n(p.MaxTradeSize)
		isMarket := a.rng.Float64() < 0.4
		req := domain.OrderRequest{
			AgentID:  a.id,
			Side:     side,
			Quantity: quantity,
			IsMarket: isMarket,
		}
		if !isMarket {
			offset := 0.001
			if isDecoy {
				offset = 0.002
			}
			if side == domain.SideBuy {
				req.Price = domain.RoundPrice(mid * (1 - offset))
			} else {
				req.Price = domain.RoundPrice(mid * (1 + offset))
			}
		}
		return []domain.OrderRequest{req}

	case tick < p.EventTime+p.UnwindHorizon:
		side, qty, ok := unwindTarget(p.Direction, a.ledger.Position, p.MaxTradeSize)
		if !ok {
			return nil
		}
		return []domain.OrderRequest{{
			AgentID:  a.id,
			Side:     side,
			Quantity: qty,
			IsMarket: true,
		}}

	default:
		return nil
	}
}

// PumpAndDumpParams configures a PumpAndDump manipulator.
type PumpAndDumpParams struct {
	StartTime     int64
	Direction     int
	PumpHorizon   int64
	UnwindHorizon int64
	TradeSize     int64
	GroupID       int64
}

// PumpAndDump needs no privileged information. It pushes the price in
// its chosen direction with aggressive orders for PumpHorizon ticks,
// then reverses and dumps the accumulated position into the move it
// created.
type PumpAndDump struct {
	base
	params PumpAndDumpParams
}

func NewPumpAndDump(id int64, rng *rand.Rand, params PumpAndDumpParams) *PumpAndDump {
	return &PumpAndDump{
		base: base{
			id:  id,
			rng: rng,
			meta: Meta{
				Type:        TypeInsider,
				IsIllegal:   true,
				IllegalType: IllegalPumpAndDump,
				GroupID:     params.GroupID,
			},
		},
		params: params,
	}
}

func (a *PumpAndDump) Step(tick int64, book BookView, fundamental, mid float64) []domain.OrderRequest {
	p := a.params
	if tick < p.StartTime {
		return nil
	}

	switch {
	case tick < p.StartTime+p.PumpHorizon:
		side := informedSide(p.Direction)
		isMarket := a.rng.Float64() < 0.7
		req := domain.OrderRequest{
			AgentID:  a.id,
			Side:     side,
			Quantity: p.TradeSize,
			IsMarket: isMarket,
		}
		if !isMarket {
			if side == domain.SideBuy {
				req.Price = domain.RoundPrice(mid * 1.002)
			} else {
				req.Price = domain.RoundPrice(mid * 0.998)
			}
		}
		return []domain.OrderRequest{req}

	case tick < p.StartTime+p.PumpHorizon+p.UnwindHorizon:
		side, qty, ok := unwindTarget(p.Direction, a.ledger.Position, p.TradeSize)
		if !ok {
			return nil
		}
		return []domain.OrderRequest{{
			AgentID:  a.id,
			Side:     side,
			Quantity: qty,
			IsMarket: true,
		}}

	default:
		return nil
	}
}

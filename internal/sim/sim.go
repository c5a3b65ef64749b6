package sim

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"marketsim/internal/agent"
	"marketsim/internal/config"
	"marketsim/internal/domain"
	"marketsim/internal/engine"
)

// initialFundamental is the fundamental value every run starts from.
const initialFundamental = 100.0

// Result bundles everything a run produces: the fundamental and mid
// price paths, the final engine state, the trade log, and the agents
// with their ledgers.
type Result struct {
	Config      config.RunConfig
	Fundamental []float64
	Mids        []float64
	Engine      *engine.Engine
	Agents      []agent.Agent
	Trades      []domain.Trade
}

// Run executes one simulation to completion. The run is fully
// determined by cfg: the master stream seeds from cfg.Seed, falling
// back to cfg.RunID when no seed is set. logger may be nil.
//
// Each tick the fundamental value advances first (a scheduled jump at
// the event tick, otherwise a gaussian step), then every agent steps
// in construction order against the same pre-step mid. Requests become
// orders with run-unique ascending ids and are matched immediately;
// fills hit both counterparties' ledgers before the next agent steps.
func Run(cfg config.RunConfig, logger *zap.SugaredLogger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("run %d: %w", cfg.RunID, err)
	}

	masterSeed := cfg.Seed
	if masterSeed == 0 {
		masterSeed = cfg.RunID
	}
	master := rand.New(rand.NewSource(masterSeed))

	eng := engine.NewEngine()
	agents, err := buildAgents(cfg, masterSeed, master, logger)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", cfg.RunID, err)
	}
	byID := make(map[int64]agent.Agent, len(agents))
	for _, a := range agents {
		byID[a.ID()] = a
	}

	if logger != nil {
		logger.Infow("run_started",
			"run_id", cfg.RunID,
			"ticks", cfg.Ticks,
			"agents", len(agents),
			"seed", masterSeed,
		)
	}

	fundamental := make([]float64, 0, cfg.Ticks)
	mids := make([]float64, 0, cfg.Ticks)
	v := initialFundamental

	nextOrderID := int64(1)

	for t := int64(0); t < cfg.Ticks; t++ {
		if cfg.HasEvent && cfg.EventTime > 0 && cfg.JumpDirection != 0 && t == cfg.EventTime {
			v *= 1 + float64(cfg.JumpDirection)*math.Abs(cfg.JumpSize)
			if logger != nil {
				logger.Debugw("fundamental_jump",
					"run_id", cfg.RunID,
					"tick", t,
					"direction", cfg.JumpDirection,
					"size", cfg.JumpSize,
					"value", v,
				)
			}
		} else {
			v += master.NormFloat64() * cfg.Volatility
		}
		fundamental = append(fundamental, v)

		midBefore := eng.MidPrice(v)

		for _, a := range agents {
			for _, req := range a.Step(t, eng, v, midBefore) {
				order := &domain.Order{
					ID:       nextOrderID,
					Time:     t,
					AgentID:  a.ID(),
					Side:     req.Side,
					Price:    req.Price,
					Quantity: req.Quantity,
					IsMarket: req.IsMarket,
				}
				nextOrderID++

				trades, err := eng.Process(order)
				if err != nil {
					return nil, fmt.Errorf("run %d: tick %d: agent %d: %w", cfg.RunID, t, a.ID(), err)
				}
				for _, trade := range trades {
					if buyer, ok := byID[trade.BuyAgent]; ok {
						buyer.OnTrade(trade.Price, trade.Quantity, domain.SideBuy)
					}
					if seller, ok := byID[trade.SellAgent]; ok {
						seller.OnTrade(trade.Price, trade.Quantity, domain.SideSell)
					}
				}
			}
		}

		mids = append(mids, eng.MidPrice(v))
	}

	if logger != nil {
		logger.Infow("run_completed",
			"run_id", cfg.RunID,
			"steps", cfg.Ticks,
			"trades", eng.TradeCount(),
			"agents", len(agents),
		)
	}

	return &Result{
		Config:      cfg,
		Fundamental: fundamental,
		Mids:        mids,
		Engine:      eng,
		Agents:      agents,
		Trades:      eng.Trades(),
	}, nil
}

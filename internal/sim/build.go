package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"marketsim/internal/agent"
	"marketsim/internal/config"
)

// randInt returns a uniform integer in [lo, hi], both ends inclusive.
func randInt(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int63n(hi-lo+1)
}

// randFloat returns a uniform float in [lo, hi).
func randFloat(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// specOr returns the explicit value when set, otherwise samples one
// from [lo, hi].
func specOr(rng *rand.Rand, explicit, lo, hi int64) int64 {
	if explicit > 0 {
		return explicit
	}
	return randInt(rng, lo, hi)
}

// buildAgents constructs the run's population in a fixed order: market
// makers, then prop traders, then noise traders, then the insiders
// declared in the config. Policy parameters are sampled from the
// master stream; each agent's private stream is seeded from the master
// seed and the agent's construction index, so a config replays the
// same population every time.
//
// Event-keyed insider specs are dropped when the run has no usable
// event, without consuming any master draws. Agent ids start at 1 and
// follow construction order.
func buildAgents(cfg config.RunConfig, masterSeed int64, master *rand.Rand, logger *zap.SugaredLogger) ([]agent.Agent, error) {
	var agents []agent.Agent
	nextID := int64(1)

	spawn := func() *rand.Rand {
		return rand.New(rand.NewSource(agentSeed(masterSeed, len(agents))))
	}

	for i := 0; i < cfg.NumMarketMakers; i++ {
		rng := spawn()
		params := agent.MarketMakerParams{
			Spread:       randFloat(master, 0.0015, 0.003),
			Size:         randInt(master, 10, 30),
			MaxInventory: randInt(master, 150, 300),
		}
		agents = append(agents, agent.NewMarketMaker(nextID, rng, params))
		nextID++
	}

	for i := 0; i < cfg.NumPropTraders; i++ {
		rng := spawn()
		mode := agent.ModeMomentum
		if master.Intn(2) == 1 {
			mode = agent.ModeMeanReversion
		}
		params := agent.PropTraderParams{
			Mode:        mode,
			PTrade:      randFloat(master, 0.2, 0.4),
			MaxQuantity: randInt(master, 5, 20),
		}
		p, err := agent.NewPropTrader(nextID, rng, params)
		if err != nil {
			return nil, fmt.Errorf("build agents: %w", err)
		}
		agents = append(agents, p)
		nextID++
	}

	for i := 0; i < cfg.NumNoiseTraders; i++ {
		rng := spawn()
		params := agent.NoiseTraderParams{
			PTrade:        randFloat(master, 0.1, 0.4),
			PMarket:       randFloat(master, 0.2, 0.8),
			MaxQuantity:   randInt(master, 5, 20),
			DirectionBias: randFloat(master, -0.1, 0.1),
		}
		agents = append(agents, agent.NewNoiseTrader(nextID, rng, params))
		nextID++
	}

	for _, spec := range cfg.Insiders {
		switch spec.Strategy {
		case config.StrategyEvent, config.StrategyRing, config.StrategySlow, config.StrategyStealth:
			if !cfg.HasEvent || cfg.EventTime == 0 || cfg.JumpDirection == 0 {
				if logger != nil {
					logger.Debugw("insider_skipped",
						"run_id", cfg.RunID,
						"strategy", spec.Strategy,
						"reason", "no_event",
					)
				}
				continue
			}
			rng := spawn()
			var ins agent.Agent
			switch spec.Strategy {
			case config.StrategyEvent, config.StrategyRing:
				ins = agent.NewEventInsider(nextID, rng, agent.EventInsiderParams{
					EventTime:     cfg.EventTime,
					Direction:     cfg.JumpDirection,
					StartTime:     cfg.EventTime - randInt(master, 40, 100),
					TradeSize:     specOr(master, spec.TradeSize, 6, 12),
					UnwindHorizon: randInt(master, 60, 120),
					GroupID:       spec.GroupID,
				})
			case config.StrategySlow:
				ins = agent.NewSlowInsider(nextID, rng, agent.SlowInsiderParams{
					EventTime:     cfg.EventTime,
					Direction:     cfg.JumpDirection,
					StartTime:     cfg.EventTime - randInt(master, 150, 350),
					MaxTradeSize:  specOr(master, spec.TradeSize, 3, 7),
					PTradePre:     randFloat(master, 0.2, 0.4),
					UnwindHorizon: randInt(master, 100, 160),
				})
			default:
				ins = agent.NewStealthInsider(nextID, rng, agent.StealthInsiderParams{
					EventTime:     cfg.EventTime,
					Direction:     cfg.JumpDirection,
					StartTime:     cfg.EventTime - randInt(master, 80, 160),
					MaxTradeSize:  specOr(master, spec.TradeSize, 4, 10),
					PTradePre:     randFloat(master, 0.3, 0.5),
					DecoyProb:     randFloat(master, 0.1, 0.25),
					UnwindHorizon: randInt(master, 60, 120),
				})
			}
			agents = append(agents, ins)
			nextID++

		case config.StrategyPump:
			rng := spawn()
			start := spec.StartTime
			if start == 0 {
				start = randInt(master, int64(0.2*float64(cfg.Ticks)), int64(0.6*float64(cfg.Ticks)))
			}
			direction := 1
			if master.Intn(2) == 1 {
				direction = -1
			}
			agents = append(agents, agent.NewPumpAndDump(nextID, rng, agent.PumpAndDumpParams{
				StartTime:     start,
				Direction:     direction,
				PumpHorizon:   randInt(master, 40, 100),
				UnwindHorizon: randInt(master, 40, 120),
				TradeSize:     specOr(master, spec.TradeSize, 8, 15),
				GroupID:       spec.GroupID,
			}))
			nextID++

		default:
			if logger != nil {
				logger.Warnw("insider_skipped",
					"run_id", cfg.RunID,
					"strategy", spec.Strategy,
					"reason", "unknown_strategy",
				)
			}
		}
	}

	return agents, nil
}

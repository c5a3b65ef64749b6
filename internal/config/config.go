package config

import (
	"fmt"

	"marketsim/internal/domain"
)

// Insider strategy labels accepted in an InsiderSpec.
const (
	StrategyEvent   = "event"
	StrategySlow    = "slow"
	StrategyStealth = "stealth"
	StrategyRing    = "ring"
	StrategyPump    = "pump"
)

// InsiderSpec declares one illegal agent to construct for a run.
// Zero-valued optional fields are sampled by the agent builder.
type InsiderSpec struct {
	Strategy  string
	StartTime int64 // pump only; event-keyed strategies derive it from the event tick
	TradeSize int64
	GroupID   int64 // 0 = no coordination group
}

// RunConfig fully determines a single simulation run. Two runs with
// identical configs replay identical price paths and trade logs.
type RunConfig struct {
	RunID           int64
	Ticks           int64
	HasEvent        bool
	EventTime       int64 // 0 = no scheduled tick, the jump never fires
	JumpSize        float64
	JumpDirection   int
	Volatility      float64
	NumNoiseTraders int
	NumMarketMakers int
	NumPropTraders  int
	Insiders        []InsiderSpec
	Seed            int64 // 0 = derive from RunID
}

// DefaultRunConfig returns the baseline scenario: a thousand ticks,
// one market maker, twenty noise traders, no prop traders and no
// insiders. HasEvent defaults on, but with no event tick scheduled
// the jump never fires.
func DefaultRunConfig(runID int64) RunConfig {
	return RunConfig{
		RunID:           runID,
		Ticks:           1000,
		HasEvent:        true,
		JumpSize:        0.1,
		JumpDirection:   1,
		Volatility:      0.05,
		NumNoiseTraders: 20,
		NumMarketMakers: 1,
	}
}

// Validate rejects configs that cannot produce a well-formed run.
func (c RunConfig) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if c.Volatility < 0 {
		return fmt.Errorf("volatility must be non-negative, got %v", c.Volatility)
	}
	if c.NumNoiseTraders < 0 || c.NumMarketMakers < 0 || c.NumPropTraders < 0 {
		return fmt.Errorf("agent counts must be non-negative, got %d/%d/%d",
			c.NumMarketMakers, c.NumPropTraders, c.NumNoiseTraders)
	}
	if c.EventTime < 0 {
		return fmt.Errorf("event time must be non-negative, got %d", c.EventTime)
	}
	if c.EventTime >= c.Ticks {
		return fmt.Errorf("event time %d outside run of %d ticks", c.EventTime, c.Ticks)
	}
	for i, spec := range c.Insiders {
		if !knownStrategy(spec.Strategy) {
			return fmt.Errorf("insider %d: strategy %q: %w", i, spec.Strategy, domain.ErrUnknownInsiderStrategy)
		}
		if spec.StartTime < 0 || spec.TradeSize < 0 || spec.GroupID < 0 {
			return fmt.Errorf("insider %d: negative field in spec %+v", i, spec)
		}
	}
	return nil
}

func knownStrategy(s string) bool {
	switch s {
	case StrategyEvent, StrategySlow, StrategyStealth, StrategyRing, StrategyPump:
		return true
	}
	return false
}

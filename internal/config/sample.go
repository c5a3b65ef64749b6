package config

import "math/rand"

// randInt returns a uniform integer in [lo, hi], both ends inclusive.
func randInt(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int63n(hi-lo+1)
}

// randFloat returns a uniform float in [lo, hi).
func randFloat(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// SampleScenario draws a randomized run configuration from rng.
// Roughly seventy percent of runs schedule a fundamental jump; of
// those, seventy percent seed insider activity, sometimes as a
// coordinated ring sharing a group id. Event-free runs host
// pump-and-dump manipulators thirty percent of the time, so both
// labels occur with and without a jump in the price path.
func SampleScenario(runID int64, rng *rand.Rand) RunConfig {
	ticks := randInt(rng, 800, 1500)

	hasEvent := rng.Float64() < 0.7
	var (
		eventTime     int64
		jumpSize      float64
		jumpDirection int
	)
	if hasEvent {
		eventTime = randInt(rng, int64(0.3*float64(ticks)), int64(0.8*float64(ticks)))
		jumpSize = randFloat(rng, 0.05, 0.2)
		jumpDirection = 1
		if rng.Intn(2) == 0 {
			jumpDirection = -1
		}
	}

	numNoise := randInt(rng, 10, 40)
	numMakers := randInt(rng, 1, 2)
	numProp := randInt(rng, 0, 2)

	var insiders []InsiderSpec
	switch {
	case hasEvent && rng.Float64() < 0.7:
		n := randInt(rng, 1, 3)
		if rng.Float64() < 0.4 && n >= 2 {
			groupID := randInt(rng, 1, 10000)
			for i := int64(0); i < n; i++ {
				insiders = append(insiders, InsiderSpec{Strategy: StrategyRing, GroupID: groupID})
			}
		} else {
			strategies := []string{StrategyEvent, StrategySlow, StrategyStealth}
			for i := int64(0); i < n; i++ {
				insiders = append(insiders, InsiderSpec{Strategy: strategies[rng.Intn(3)]})
			}
		}
	case !hasEvent && rng.Float64() < 0.3:
		n := randInt(rng, 1, 2)
		var groupID int64
		if n > 1 {
			groupID = randInt(rng, 1, 10000)
		}
		for i := int64(0); i < n; i++ {
			insiders = append(insiders, InsiderSpec{Strategy: StrategyPump, GroupID: groupID})
		}
	}

	return RunConfig{
		RunID:           runID,
		Ticks:           ticks,
		HasEvent:        hasEvent,
		EventTime:       eventTime,
		JumpSize:        jumpSize,
		JumpDirection:   jumpDirection,
		Volatility:      0.05,
		NumNoiseTraders: int(numNoise),
		NumMarketMakers: int(numMakers),
		NumPropTraders:  int(numProp),
		Insiders:        insiders,
		Seed:            rng.Int63n(1 << 31),
	}
}

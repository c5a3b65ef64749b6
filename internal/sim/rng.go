package sim

// agentSeed derives the private stream seed for the agent at the given
// construction index from the run's master seed. A splitmix64 round
// spreads neighboring indices across the seed space, and the same
// (seed, index) pair always maps to the same value.
func agentSeed(masterSeed int64, index int) int64 {
	z := uint64(masterSeed) + uint64(index+1)*0x9E3779B97F4A7C15
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z)
}

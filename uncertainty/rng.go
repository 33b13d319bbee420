package uncertainty

import "golang.org/x/exp/rand"

// defaultSeed is the fixed seed substituted when callers pass Seed == 0.
// The value is arbitrary but stable, keeping zero-value configurations
// reproducible across runs and platforms.
const defaultSeed uint64 = 1

// trialSeed mixes the run seed and a trial index into an independent
// 64-bit stream seed using the SplitMix64 finalizer (Vigna 2014). The
// avalanche mix removes the correlations that plain seed+index offsets
// would leave between neighbouring trials.
func trialSeed(seed uint64, trial uint64) uint64 {
	x := seed ^ (trial + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return x
}

// trialSource returns the private random source for one trial. Sources are
// created during trial startup, never shared, and never advanced from more
// than one goroutine.
func trialSource(seed uint64, trial int) rand.Source {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.NewSource(trialSeed(seed, uint64(trial)))
}

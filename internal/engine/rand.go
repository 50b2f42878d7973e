package engine

import "math/rand/v2"

// Rand is the random source used for chance rolls and repricing.
type Rand interface {
	// Float64 returns a uniform number in [0, 1).
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand returns the process-wide math/rand/v2 source. Safe for concurrent use.
func DefaultRand() Rand { return globalRand{} }

// NewSeededRand returns a deterministic source for replays and tests.
// Not safe for concurrent use; the engine only calls it under its lock.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

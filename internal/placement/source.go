// Package placement generates spaced turbine positions inside a land polygon.
//
// A run is a deterministic function of the plan seed and the zone order:
// one random stream is created per run and consumed, in ascending cluster
// order, by the sampler (two draws per trial, latitude first), by the
// capacity assignment (one draw per turbine, right after its zone) and
// finally by a Fisher–Yates shuffle of the whole fleet.
package placement

import (
	"math"
	"math/rand/v2"
)

// Source is the random stream threaded through a generation run.
// *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewSource returns the PCG backed stream used for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// uniform draws one value from [lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// roundTo rounds half away from zero at the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}

// shuffle permutes s in place with the Fisher–Yates algorithm, drawing
// j from [0, i] for i = len(s)-1 down to 1.
func shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

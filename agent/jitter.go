package agent

import (
	"math/rand/v2"
)

// randomJitterDeg returns a random angle in degrees within ±maxDeg.
// This keeps shots from being perfectly predictable.
func randomJitterDeg(rng *rand.Rand, maxDeg float64) float64 {
	// Uniform in [-1, 1), scaled by maxDeg
	return (rng.Float64()*2 - 1) * maxDeg
}

// randomHeading returns a whole-degree heading uniformly in [1, 360].
func randomHeading(rng *rand.Rand) float64 {
	return float64(rng.IntN(360) + 1)
}

package agent

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

// ApproachPoint samples ringPoints waypoints evenly around target at
// ringRadius and returns the one closest to self, rounded up to whole
// coordinates. Ties keep the first candidate in angle order. The result is
// not obstacle-aware.
func ApproachPoint(target, self mgl64.Vec2, ringPoints int, ringRadius float64) mgl64.Vec2 {
	if ringPoints < 1 {
		ringPoints = 1
	}

	var best mgl64.Vec2
	bestDist := math.Inf(1)
	step := 2 * math.Pi / float64(ringPoints)

	for i := 0; i < ringPoints; i++ {
		angle := float64(i) * step
		candidate := target.Add(mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(ringRadius))
		if d := game.Distance(self, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}

	return mgl64.Vec2{math.Ceil(best.X()), math.Ceil(best.Y())}
}

package agent

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

// Bearing returns the exact heading in degrees [0, 360) from one point to
// another. Boundary math must use this form, never the jittered one.
func Bearing(from, to mgl64.Vec2) float64 {
	return game.Heading(to.Sub(from))
}

// JitteredBearing is Bearing plus uniform noise of up to ±maxJitter degrees,
// renormalized to [0, 360).
func JitteredBearing(from, to mgl64.Vec2, maxJitter float64, rng *rand.Rand) float64 {
	return game.NormalizeDegrees(Bearing(from, to) + randomJitterDeg(rng, maxJitter))
}

// aimPoint picks where to shoot at the target. With lead enabled and a
// moving target, it is the intercept point for a bullet of bulletSpeed;
// otherwise the target's current position.
func aimPoint(self mgl64.Vec2, target *game.Object, lead bool, bulletSpeed float64) (mgl64.Vec2, bool) {
	pos := target.Position.Anchor()
	if !lead || target.Stationary() {
		return pos, false
	}
	sol, ok := InterceptDirection(self, pos, *target.Velocity, bulletSpeed)
	if !ok {
		return pos, false
	}
	return sol.InterceptPoint, true
}

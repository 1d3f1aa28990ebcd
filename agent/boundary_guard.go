package agent

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

// PerpendicularDistance returns the unsigned distance from p to the infinite
// line through a and b. a and b must differ.
func PerpendicularDistance(p, a, b mgl64.Vec2) float64 {
	dy := b.Y() - a.Y()
	dx := b.X() - a.X()
	num := math.Abs(dy*p.X() - dx*p.Y() + b.X()*a.Y() - b.Y()*a.X())
	return num / math.Sqrt(dy*dy+dx*dx)
}

// NearPlanes returns the closing-boundary planes closer to self than threshold.
func NearPlanes(c game.Corners, self mgl64.Vec2, threshold float64) []Plane {
	var near []Plane
	for _, pl := range Planes {
		if PerpendicularDistance(self, c[pl.From], c[pl.To]) < threshold {
			near = append(near, pl)
		}
	}
	return near
}

// escapeHeading samples a heading uniformly from the plane's safe range.
func escapeHeading(pl Plane, rng *rand.Rand) float64 {
	return game.NormalizeDegrees(pl.EscapeMin + rng.Float64()*(pl.EscapeMax-pl.EscapeMin))
}

// guardVerdict is what the boundary guard wants done this turn.
type guardVerdict struct {
	heading float64
	planes  []Plane
	outside bool
}

// checkBoundary decides whether the agent must run from the closing boundary.
// A single near plane yields a heading from that plane's escape range. With
// cornerEscape set, two or more near planes or a position outside the arena
// yield the heading towards the arena center; otherwise those cases are left
// alone.
func checkBoundary(c game.Corners, self mgl64.Vec2, threshold float64, cornerEscape bool, rng *rand.Rand) (guardVerdict, bool) {
	near := NearPlanes(c, self, threshold)
	outside := !c.Contains(self)

	switch {
	case cornerEscape && outside:
		return guardVerdict{heading: Bearing(self, c.Center()), planes: near, outside: true}, true
	case len(near) == 1:
		return guardVerdict{heading: escapeHeading(near[0], rng), planes: near}, true
	case cornerEscape && len(near) > 1:
		return guardVerdict{heading: Bearing(self, c.Center()), planes: near}, true
	default:
		return guardVerdict{}, false
	}
}

func planeNames(planes []Plane) []string {
	names := make([]string, len(planes))
	for i, pl := range planes {
		names[i] = pl.Name
	}
	return names
}

package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Distance calculates distance between two points
func Distance(a, b mgl64.Vec2) float64 {
	return b.Sub(a).Len()
}

// NormalizeDegrees keeps a heading within [0, 360). NaN and infinities map to 0.
func NormalizeDegrees(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod can return -0 or round a tiny negative up to exactly 360
	if deg >= 360 || deg == 0 {
		return 0
	}
	return deg
}

// AngleDifference calculates the smallest absolute difference between two
// headings in degrees, in [0, 180].
func AngleDifference(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// Heading converts a direction vector into degrees, 0 along +X, counter-clockwise.
func Heading(v mgl64.Vec2) float64 {
	return NormalizeDegrees(mgl64.RadToDeg(math.Atan2(v.Y(), v.X())))
}

// Centroid returns the vertex average of a polygon.
func Centroid(points []mgl64.Vec2) mgl64.Vec2 {
	if len(points) == 0 {
		return mgl64.Vec2{}
	}
	var sum mgl64.Vec2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

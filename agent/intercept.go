package agent

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

// InterceptSolution contains the result of an intercept calculation
type InterceptSolution struct {
	Bearing         float64    // Firing heading in degrees
	TimeToIntercept float64    // Turns until the bullet reaches the target
	InterceptPoint  mgl64.Vec2 // Where the intercept will occur
}

// InterceptDirection calculates the heading to fire a bullet so it meets a
// target moving at constant velocity. It solves
//
//	|targetPos + targetVel*t - shooterPos| = projSpeed*t
//
// for the smallest positive t. ok is false when no such t exists.
func InterceptDirection(shooterPos, targetPos, targetVel mgl64.Vec2, projSpeed float64) (InterceptSolution, bool) {
	if projSpeed <= 0 {
		return InterceptSolution{}, false
	}

	rel := targetPos.Sub(shooterPos)
	distSq := rel.Dot(rel)
	if distSq < 1e-9 {
		// Target is on top of the shooter
		return InterceptSolution{TimeToIntercept: 1e-6, InterceptPoint: shooterPos}, true
	}

	velSq := targetVel.Dot(targetVel)
	if velSq < 1e-9 {
		return InterceptSolution{
			Bearing:         game.Heading(rel),
			TimeToIntercept: math.Sqrt(distSq) / projSpeed,
			InterceptPoint:  targetPos,
		}, true
	}

	// a*t² + b*t + c = 0
	a := velSq - projSpeed*projSpeed
	b := 2.0 * rel.Dot(targetVel)
	c := distSq

	var t float64
	if math.Abs(a) < 1e-9 {
		// Same speed as the bullet: linear case
		if math.Abs(b) < 1e-9 {
			return InterceptSolution{}, false
		}
		t = -c / b
		if t < 0 {
			return InterceptSolution{}, false
		}
	} else {
		discriminant := b*b - 4*a*c
		if discriminant < 0 {
			return InterceptSolution{}, false
		}
		sq := math.Sqrt(discriminant)
		t1 := (-b + sq) / (2 * a)
		t2 := (-b - sq) / (2 * a)

		switch {
		case t1 > 0 && t2 > 0:
			t = math.Min(t1, t2)
		case t1 > 0:
			t = t1
		case t2 > 0:
			t = t2
		default:
			return InterceptSolution{}, false
		}
	}

	point := targetPos.Add(targetVel.Mul(t))
	return InterceptSolution{
		Bearing:         Bearing(shooterPos, point),
		TimeToIntercept: t,
		InterceptPoint:  point,
	}, true
}

package agent

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

const (
	// Test tolerance for floating point comparisons
	angleTolerance = 1.0 // degrees
	timeTolerance  = 0.1 // turns
	distTolerance  = 10.0
)

// interceptCase represents a single intercept test case
type interceptCase struct {
	name          string
	shooterPos    mgl64.Vec2
	targetPos     mgl64.Vec2
	targetVel     mgl64.Vec2
	projSpeed     float64
	expectedDir   float64 // Expected heading in degrees
	expectedTime  float64 // Expected time to intercept; negative skips the check
	shouldSucceed bool
	description   string
}

func TestInterceptDirection(t *testing.T) {
	testCases := []interceptCase{
		{
			name:          "StationaryTarget",
			targetPos:     mgl64.Vec2{100, 0},
			projSpeed:     50.0,
			expectedDir:   0.0, // Firing east
			expectedTime:  2.0, // 100 units / 50 speed = 2 turns
			shouldSucceed: true,
			description:   "Stationary target directly east",
		},
		{
			name:          "HeadOnApproach",
			targetPos:     mgl64.Vec2{100, 0},
			targetVel:     mgl64.Vec2{-25, 0}, // Moving toward shooter
			projSpeed:     50.0,
			expectedDir:   0.0,
			expectedTime:  100.0 / (50.0 + 25.0), // Relative closing speed
			shouldSucceed: true,
			description:   "Target moving directly toward shooter",
		},
		{
			name:          "PerpendicularCrossing",
			targetPos:     mgl64.Vec2{100, 0},
			targetVel:     mgl64.Vec2{0, 30}, // Moving north
			projSpeed:     50.0,
			expectedDir:   mgl64.RadToDeg(math.Atan(30.0 / 40.0)), // Lead angle
			expectedTime:  2.5,
			shouldSucceed: true,
			description:   "Target crossing perpendicular to line of sight",
		},
		{
			name:          "ChasingFastTarget",
			targetPos:     mgl64.Vec2{100, 0},
			targetVel:     mgl64.Vec2{40, 0}, // Moving away fast
			projSpeed:     50.0,
			expectedDir:   0.0,
			expectedTime:  10.0, // 100/(50-40) = 10 turns
			shouldSucceed: true,
			description:   "Chasing fast target moving away",
		},
		{
			name:          "ImpossibleIntercept_TooFast",
			targetPos:     mgl64.Vec2{100, 0},
			targetVel:     mgl64.Vec2{60, 0}, // Faster than the bullet
			projSpeed:     50.0,
			shouldSucceed: false,
			description:   "Target moving away faster than the bullet",
		},
		{
			name:          "ImpossibleIntercept_Perpendicular",
			targetPos:     mgl64.Vec2{100, 0},
			targetVel:     mgl64.Vec2{0, 60},
			projSpeed:     50.0,
			shouldSucceed: false,
			description:   "Target moving too fast perpendicular",
		},
		{
			name:          "SameSpeedReceding",
			targetPos:     mgl64.Vec2{100, 0},
			targetVel:     mgl64.Vec2{50, 0},
			projSpeed:     50.0,
			shouldSucceed: false,
			description:   "Target receding at bullet speed is never caught",
		},
		{
			name:          "SameSpeedApproaching",
			targetPos:     mgl64.Vec2{100, 0},
			targetVel:     mgl64.Vec2{-50, 0},
			projSpeed:     50.0,
			expectedDir:   0.0,
			expectedTime:  1.0,
			shouldSucceed: true,
			description:   "Linear case with the target closing at bullet speed",
		},
		{
			name:          "ZeroDistance",
			targetVel:     mgl64.Vec2{10, 10},
			projSpeed:     50.0,
			expectedDir:   0.0,
			expectedTime:  -1.0,
			shouldSucceed: true,
			description:   "Target at same position as shooter",
		},
		{
			name:          "ZeroBulletSpeed",
			targetPos:     mgl64.Vec2{100, 0},
			projSpeed:     0,
			shouldSucceed: false,
			description:   "Bullet that never moves",
		},
		{
			name:          "DiagonalMotion",
			shooterPos:    mgl64.Vec2{0, 0},
			targetPos:     mgl64.Vec2{100, 100},
			targetVel:     mgl64.Vec2{20, -20},
			projSpeed:     60.0,
			expectedDir:   -1,
			expectedTime:  -1,
			shouldSucceed: true,
			description:   "Target with diagonal motion",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sol, ok := InterceptDirection(tc.shooterPos, tc.targetPos, tc.targetVel, tc.projSpeed)

			if ok != tc.shouldSucceed {
				t.Fatalf("%s: success = %v, want %v", tc.description, ok, tc.shouldSucceed)
			}
			if !ok {
				return
			}

			if tc.expectedDir >= 0 {
				if diff := game.AngleDifference(sol.Bearing, tc.expectedDir); diff > angleTolerance {
					t.Errorf("%s: bearing = %f, want %f", tc.description, sol.Bearing, tc.expectedDir)
				}
			}
			if tc.expectedTime >= 0 && math.Abs(sol.TimeToIntercept-tc.expectedTime) > timeTolerance {
				t.Errorf("%s: time = %f, want %f", tc.description, sol.TimeToIntercept, tc.expectedTime)
			}

			// The bullet must actually arrive where the target will be
			if sol.TimeToIntercept > 1e-3 {
				bullet := tc.shooterPos.Add(headingVec(sol.Bearing).Mul(tc.projSpeed * sol.TimeToIntercept))
				target := tc.targetPos.Add(tc.targetVel.Mul(sol.TimeToIntercept))
				if d := game.Distance(bullet, target); d > distTolerance {
					t.Errorf("%s: bullet misses by %f units", tc.description, d)
				}
			}
		})
	}
}

func headingVec(deg float64) mgl64.Vec2 {
	rad := mgl64.DegToRad(deg)
	return mgl64.Vec2{math.Cos(rad), math.Sin(rad)}
}

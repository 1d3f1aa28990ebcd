package agent

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"pgregory.net/rapid"

	"github.com/lab1702/tank-agent/game"
)

func TestBearing(t *testing.T) {
	tests := []struct {
		name     string
		from, to mgl64.Vec2
		want     float64
	}{
		{"East", mgl64.Vec2{0, 0}, mgl64.Vec2{300, 0}, 0},
		{"North", mgl64.Vec2{0, 0}, mgl64.Vec2{0, 10}, 90},
		{"West", mgl64.Vec2{5, 5}, mgl64.Vec2{-5, 5}, 180},
		{"South", mgl64.Vec2{0, 0}, mgl64.Vec2{0, -1}, 270},
		{"South east", mgl64.Vec2{0, 0}, mgl64.Vec2{1, -1}, 315},
		{"Same point", mgl64.Vec2{3, 3}, mgl64.Vec2{3, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bearing(tt.from, tt.to); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Bearing(%v, %v) = %f, want %f", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestBearingRange(t *testing.T) {
	coord := rapid.Float64Range(-1e6, 1e6)
	rapid.Check(t, func(t *rapid.T) {
		from := mgl64.Vec2{coord.Draw(t, "fx"), coord.Draw(t, "fy")}
		to := mgl64.Vec2{coord.Draw(t, "tx"), coord.Draw(t, "ty")}

		got := Bearing(from, to)
		if got < 0 || got >= 360 {
			t.Fatalf("Bearing(%v, %v) = %f, want [0, 360)", from, to, got)
		}
	})
}

func TestJitteredBearing(t *testing.T) {
	rng := testRand(42)
	from, to := mgl64.Vec2{0, 0}, mgl64.Vec2{300, 0}

	for i := 0; i < 1000; i++ {
		got := JitteredBearing(from, to, AimJitterDeg, rng)
		if got < 0 || got >= 360 {
			t.Fatalf("JitteredBearing = %f, want [0, 360)", got)
		}
		if diff := game.AngleDifference(got, 0); diff > AimJitterDeg+1e-9 {
			t.Fatalf("JitteredBearing = %f, %f degrees off target", got, diff)
		}
	}
}

func TestAimPoint(t *testing.T) {
	self := mgl64.Vec2{0, 0}

	tests := []struct {
		name    string
		target  game.Object
		lead    bool
		wantLed bool
	}{
		{"Lead off", tank(300, 0, 0, 30), false, false},
		{"Stationary target", tank(300, 0, 0, 0), true, false},
		{"Missing velocity", game.Object{Type: game.ObjectTank, Position: game.At(300, 0)}, true, false},
		{"Crossing target", tank(300, 0, 0, 30), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, led := aimPoint(self, &tt.target, tt.lead, BulletSpeed)
			if led != tt.wantLed {
				t.Fatalf("led = %v, want %v", led, tt.wantLed)
			}
			if !led && got != tt.target.Position.Anchor() {
				t.Errorf("aim point = %v, want target position %v", got, tt.target.Position.Anchor())
			}
			if led && got.Y() <= 0 {
				t.Errorf("aim point = %v, want ahead of a target moving north", got)
			}
		})
	}
}

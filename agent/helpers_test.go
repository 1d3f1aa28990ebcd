package agent

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

const (
	selfID  game.ID = "self"
	enemyID game.ID = "enemy"
)

// arena is an 1800x1000 closing boundary centered on the origin.
var arena = game.Corners{
	game.TopLeft:     {-900, 500},
	game.BottomLeft:  {-900, -500},
	game.BottomRight: {900, -500},
	game.TopRight:    {900, 500},
}

// serverOrder lists the corners the way the server sends them: clockwise
// from the top right.
func serverOrder(c game.Corners) game.Position {
	return game.PolygonOf(c[game.TopRight], c[game.BottomRight], c[game.BottomLeft], c[game.TopLeft])
}

func tank(x, y, vx, vy float64) game.Object {
	return game.Object{Type: game.ObjectTank, Position: game.At(x, y), Velocity: &mgl64.Vec2{vx, vy}}
}

func pickup(kind game.PowerupType, x, y float64) game.Object {
	return game.Object{Type: game.ObjectPowerup, Position: game.At(x, y), PowerupType: kind}
}

// fataler is the part of testing.TB that rapid.T also provides.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// newTestWorld builds a sealed world holding the arena, both tanks and any
// extra objects.
func newTestWorld(t fataler, self, enemy game.Object, extra map[game.ID]game.Object) *game.World {
	t.Helper()

	objects := map[game.ID]game.Object{
		"edge-top":    {Type: game.ObjectBoundary, Position: game.PolygonOf(arena[game.TopLeft], arena[game.TopRight])},
		"edge-bottom": {Type: game.ObjectBoundary, Position: game.PolygonOf(arena[game.BottomLeft], arena[game.BottomRight])},
		"closing":     {Type: game.ObjectClosingBoundary, Position: serverOrder(arena)},
		selfID:        self,
		enemyID:       enemy,
	}
	for id, obj := range extra {
		objects[id] = obj
	}

	w := game.NewWorld()
	w.ApplyDelta(nil, objects)
	if err := w.Seal(); err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	return w
}

func newTestAgent(params Params, seed uint64) *Agent {
	return New(selfID, enemyID, params,
		WithRand(rand.New(rand.NewPCG(seed, seed+1))),
		WithLogger(log.New(io.Discard)),
	)
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

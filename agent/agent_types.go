package agent

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

// Mode is the behavior the state machine is currently in.
type Mode int

// Behavior modes
const (
	ModeDefensive  Mode = iota // Wander on a heading; initial mode
	ModeSeekPickup             // Path to a bound priority pickup
	ModeAttack                 // Path to a stand-off point near the enemy
)

func (m Mode) String() string {
	switch m {
	case ModeDefensive:
		return "DEFENSIVE"
	case ModeSeekPickup:
		return "SEEK_PICKUP"
	case ModeAttack:
		return "ATTACK"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is everything the agent remembers between turns.
type State struct {
	Mode     Mode
	Heading  *float64    // Current movement heading in degrees
	Path     *mgl64.Vec2 // Current path target
	PickupID *game.ID    // Bound pickup while seeking
	Counter  int         // Turns counted towards PatienceTurns
	LastPath *mgl64.Vec2 // Last path command sent, to suppress repeats
}

// Clone returns a deep copy safe to hand out.
func (s State) Clone() State {
	out := s
	if s.Heading != nil {
		out.Heading = ptr(*s.Heading)
	}
	if s.Path != nil {
		out.Path = ptr(*s.Path)
	}
	if s.PickupID != nil {
		out.PickupID = ptr(*s.PickupID)
	}
	if s.LastPath != nil {
		out.LastPath = ptr(*s.LastPath)
	}
	return out
}

// DetectableSet is the agent's working perception: a range-limited subset of
// the world, keyed like the world.
type DetectableSet map[game.ID]*game.Object

// Plane is one side of the closing boundary together with the headings that
// lead away from it.
type Plane struct {
	Name      string
	From, To  int     // Corner indices spanning the plane
	EscapeMin float64 // Escape heading range in degrees; EscapeMax may exceed 360
	EscapeMax float64
}

// Planes of the closing boundary, in evaluation order
var Planes = []Plane{
	{Name: "top", From: game.TopLeft, To: game.TopRight, EscapeMin: 220, EscapeMax: 320},
	{Name: "left", From: game.TopLeft, To: game.BottomLeft, EscapeMin: 310, EscapeMax: 410},
	{Name: "bottom", From: game.BottomLeft, To: game.BottomRight, EscapeMin: 40, EscapeMax: 140},
	{Name: "right", From: game.BottomRight, To: game.TopRight, EscapeMin: 130, EscapeMax: 230},
}

// movement is a single movement-type command; exactly one field is set.
type movement struct {
	heading *float64
	path    *mgl64.Vec2
}

func moveOn(heading float64) *movement   { return &movement{heading: ptr(heading)} }
func pathTo(target mgl64.Vec2) *movement { return &movement{path: ptr(target)} }

// plan collects the decisions of one turn by priority tier before they are
// folded into a single Action.
type plan struct {
	survival  *movement // Boundary escape
	objective *movement // Mode action
	shoot     *float64  // Opportunistic fire
	paused    bool      // Turn does not count towards patience
	reset     bool      // Counter was reset this turn
}

// resolve folds the tiers into one Action: survival beats objective for the
// movement slot, and shooting rides along with whichever wins.
func (p *plan) resolve() game.Action {
	var act game.Action
	mv := p.objective
	if p.survival != nil {
		mv = p.survival
	}
	if mv != nil {
		act.Move = mv.heading
		act.Path = mv.path
	}
	act.Shoot = p.shoot
	return act
}

func ptr[T any](v T) *T {
	return &v
}

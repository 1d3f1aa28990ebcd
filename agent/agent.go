package agent

import (
	"fmt"
	"maps"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

// Agent is the per-tank decision engine. It owns its State and DetectableSet
// and is driven by exactly one turn loop; it is not safe for concurrent use.
type Agent struct {
	selfID  game.ID
	enemyID game.ID
	params  Params
	state   State
	seen    DetectableSet
	rng     *rand.Rand
	log     *log.Logger
	turn    int
}

// Option configures an Agent.
type Option func(*Agent)

// WithRand sets the random source used for headings and aim jitter.
func WithRand(rng *rand.Rand) Option {
	return func(a *Agent) { a.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.log = l }
}

// New creates an agent for selfID fighting enemyID. It starts in DEFENSIVE.
func New(selfID, enemyID game.ID, params Params, opts ...Option) *Agent {
	a := &Agent{
		selfID:  selfID,
		enemyID: enemyID,
		params:  params,
		state:   State{Mode: ModeDefensive},
		seen:    make(DetectableSet),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:     log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IDs returns the tank the agent drives and the tank it fights.
func (a *Agent) IDs() (self, enemy game.ID) {
	return a.selfID, a.enemyID
}

// State returns a copy of the agent's state.
func (a *Agent) State() State {
	return a.state.Clone()
}

// Detected returns a copy of the current detectable set.
func (a *Agent) Detected() DetectableSet {
	return maps.Clone(a.seen)
}

// Turn runs one decision cycle against the world as it stands after this
// turn's delta and returns the single action to send. Missing self, enemy or
// closing boundary objects are reported as errors wrapping
// game.ErrMissingObject.
func (a *Agent) Turn(w *game.World) (game.Action, error) {
	self, err := w.Require(a.selfID)
	if err != nil {
		return game.Action{}, fmt.Errorf("self tank: %w", err)
	}
	enemy, err := w.Require(a.enemyID)
	if err != nil {
		return game.Action{}, fmt.Errorf("enemy tank: %w", err)
	}
	corners, err := w.Corners(w.ClosingBoundaryID())
	if err != nil {
		return game.Action{}, fmt.Errorf("closing boundary: %w", err)
	}

	a.turn++
	pos := self.Position.Anchor()

	candidate, stats := perceive(a.seen, w, a.selfID, pos, a.params.DetectionRadius, a.state.PickupID != nil)
	a.log.Debug("perceived", "turn", a.turn, "retained", stats.retained,
		"walls", stats.walls, "bullets", stats.bullets, "unknown", stats.unknown)

	var p plan

	// Too slow to be going anywhere; try a new direction
	if self.Speed() < a.params.stuckSpeed() {
		a.state.Heading = ptr(randomHeading(a.rng))
	}

	if a.state.Mode == ModeDefensive && candidate != nil {
		a.enterSeek(*candidate)
	}

	switch a.state.Mode {
	case ModeDefensive:
		a.defend(&p)
	case ModeAttack:
		a.attack(&p, self, enemy, pos)
	case ModeSeekPickup:
		a.seek(&p)
	}

	if v, ok := checkBoundary(corners, pos, a.params.BoundaryThreshold, a.params.CornerEscape, a.rng); ok {
		a.escape(&p, v)
	}

	if target, ok := a.seen[a.enemyID]; ok {
		p.shoot = ptr(a.aim(pos, target))
	}

	a.advance(&p)

	act := p.resolve()
	a.log.Debug("decided", "turn", a.turn, "mode", a.state.Mode, "counter", a.state.Counter, "action", act)
	return act, nil
}

// defend keeps moving on the current heading.
func (a *Agent) defend(p *plan) {
	if a.state.Heading == nil && a.state.Path == nil {
		a.state.Heading = ptr(randomHeading(a.rng))
	}
	if a.state.Path == nil {
		p.objective = moveOn(*a.state.Heading)
	}
}

// attack paths to a stand-off point next to the enemy. A tank whose velocity
// has dropped to exactly zero has arrived or is stuck, so it falls back to
// DEFENSIVE.
func (a *Agent) attack(p *plan, self, enemy *game.Object, pos mgl64.Vec2) {
	if self.Stationary() {
		a.log.Info("attack stalled", "turn", a.turn)
		a.state.Mode = ModeDefensive
		a.state.Path = nil
		a.state.LastPath = nil
		a.state.Heading = nil
		a.resetCounter(p)
		return
	}

	target := ApproachPoint(enemy.Position.Anchor(), pos, a.params.RingPoints, a.params.RingRadius)
	a.state.Path = ptr(target)
	if a.state.LastPath == nil || *a.state.LastPath != target {
		a.state.LastPath = ptr(target)
		p.objective = pathTo(target)
	}
}

// seek paths to the bound pickup. Seeking turns do not count towards patience.
func (a *Agent) seek(p *plan) {
	id := *a.state.PickupID
	pickup, ok := a.seen[id]
	if !ok {
		a.log.Info("pickup gone", "turn", a.turn, "pickup", id)
		a.state.Mode = ModeDefensive
		a.state.PickupID = nil
		a.state.Path = nil
		a.state.LastPath = nil
		a.defend(p)
		return
	}

	p.paused = true
	target := pickup.Position.Anchor()
	if a.state.Path == nil || *a.state.Path != target {
		a.state.Path = ptr(target)
		a.state.LastPath = ptr(target)
		p.objective = pathTo(target)
	}
}

// escape applies the boundary guard override. It wins over whatever the mode
// action chose for movement.
func (a *Agent) escape(p *plan, v guardVerdict) {
	if a.state.Mode != ModeDefensive {
		a.log.Info("boundary escape", "turn", a.turn, "from", a.state.Mode,
			"planes", planeNames(v.planes), "outside", v.outside)
	} else {
		a.log.Debug("boundary escape", "turn", a.turn, "planes", planeNames(v.planes), "outside", v.outside)
	}

	a.state.Mode = ModeDefensive
	a.state.PickupID = nil
	a.state.Path = nil
	a.state.LastPath = nil
	a.state.Heading = ptr(v.heading)
	a.resetCounter(p)
	p.survival = moveOn(v.heading)
}

func (a *Agent) enterSeek(id game.ID) {
	a.log.Info("seeking pickup", "turn", a.turn, "pickup", id)
	a.state.Mode = ModeSeekPickup
	a.state.PickupID = ptr(id)
	a.state.Path = nil
}

func (a *Agent) enterAttack() {
	a.log.Info("patience exhausted, attacking", "turn", a.turn, "from", a.state.Mode)
	a.state.Mode = ModeAttack
	a.state.PickupID = nil
	a.state.LastPath = nil
	a.state.Counter = 0
}

func (a *Agent) resetCounter(p *plan) {
	a.state.Counter = 0
	p.reset = true
}

// advance counts the turn unless it was paused or the counter was reset, and
// forces ATTACK once patience runs out.
func (a *Agent) advance(p *plan) {
	if !p.paused && !p.reset {
		a.state.Counter++
	}
	if a.state.Counter > a.params.PatienceTurns {
		a.enterAttack()
	}
}

// aim returns a jittered firing heading at the target.
func (a *Agent) aim(pos mgl64.Vec2, target *game.Object) float64 {
	point, led := aimPoint(pos, target, a.params.LeadShots, a.params.BulletSpeed)
	if led {
		a.log.Debug("leading shot", "turn", a.turn,
			"offset", game.AngleDifference(Bearing(pos, target.Position.Anchor()), Bearing(pos, point)))
	}
	return JitteredBearing(pos, point, a.params.AimJitterDeg, a.rng)
}

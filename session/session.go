// Package session runs one game for one tank: the init handshake followed by
// the turn loop, one inbound record and one outbound action per turn.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lab1702/tank-agent/agent"
	"github.com/lab1702/tank-agent/game"
	"github.com/lab1702/tank-agent/protocol"
)

// ErrHandshake means the init phase did not follow the expected sequence.
var ErrHandshake = errors.New("bad init handshake")

// Observer is told about every decided turn. It runs on the turn loop and
// must not retain the world or agent.
type Observer interface {
	Observe(turn int, w *game.World, a *agent.Agent, act game.Action)
}

// Options configure a Session.
type Options struct {
	Params   agent.Params
	Logger   *log.Logger
	Observer Observer
	Rand     *rand.Rand // Decision randomness; seeded randomly when nil
}

// Session owns the world model and agent for a single game. It is driven by
// one goroutine and holds no locks.
type Session struct {
	id    uuid.UUID
	tr    protocol.Transport
	opts  Options
	log   *log.Logger
	world *game.World
	agent *agent.Agent
	turn  int
}

// New creates a session reading from and writing to tr.
func New(tr protocol.Transport, opts Options) *Session {
	id := uuid.New()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		id:    id,
		tr:    tr,
		opts:  opts,
		log:   logger.With("match", id.String()),
		world: game.NewWorld(),
	}
}

// ID returns the match id used in log fields.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Turns returns how many turns have been answered.
func (s *Session) Turns() int {
	return s.turn
}

// World returns the session's world model.
func (s *Session) World() *game.World {
	return s.world
}

// Run plays the game until the server sends END, which returns nil without
// writing a further action. Any read, decode, decision or write failure ends
// the session with an error.
func (s *Session) Run(ctx context.Context) error {
	selfID, enemyID, err := s.handshake(ctx)
	if errors.Is(err, errGameOver) {
		s.log.Info("game ended during init")
		return nil
	}
	if err != nil {
		return err
	}

	opts := []agent.Option{agent.WithLogger(s.log)}
	if s.opts.Rand != nil {
		opts = append(opts, agent.WithRand(s.opts.Rand))
	}
	s.agent = agent.New(selfID, enemyID, s.opts.Params, opts...)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := s.tr.Read(ctx)
		if err != nil {
			return fmt.Errorf("read turn %d: %w", s.turn+1, err)
		}

		switch rec.Signal {
		case protocol.SignalEnd:
			s.log.Info("game over", "turns", s.turn)
			return nil
		case protocol.SignalEndInit:
			return fmt.Errorf("turn %d: %w: %s after init", s.turn+1, protocol.ErrUnexpectedSignal, rec.Signal)
		case protocol.SignalMessage:
		}

		s.world.ApplyDelta(rec.Message.DeletedObjects, rec.Message.UpdatedObjects)
		s.turn++

		act, err := s.agent.Turn(s.world)
		if err != nil {
			s.log.Error("cannot decide", "turn", s.turn, "err", err)
			return fmt.Errorf("turn %d: %w", s.turn, err)
		}

		if err := s.tr.Write(ctx, act); err != nil {
			return fmt.Errorf("write turn %d: %w", s.turn, err)
		}

		if s.opts.Observer != nil {
			s.opts.Observer.Observe(s.turn, s.world, s.agent, act)
		}
	}
}

var errGameOver = errors.New("game over")

// handshake consumes the init phase: the tank ids, then world snapshots until
// END_INIT. The world is sealed on return.
func (s *Session) handshake(ctx context.Context) (self, enemy game.ID, err error) {
	rec, err := s.tr.Read(ctx)
	if err != nil {
		return "", "", fmt.Errorf("read init: %w", err)
	}
	if rec.Signal == protocol.SignalEnd {
		return "", "", errGameOver
	}
	if rec.Signal != protocol.SignalMessage || rec.Message.YourTankID == "" || rec.Message.EnemyTankID == "" {
		return "", "", fmt.Errorf("%w: first record must name both tanks", ErrHandshake)
	}
	self, enemy = rec.Message.YourTankID, rec.Message.EnemyTankID
	s.log.Info("joined", "self", self, "enemy", enemy)

	for snapshots := 0; ; snapshots++ {
		rec, err := s.tr.Read(ctx)
		if err != nil {
			return "", "", fmt.Errorf("read init snapshot %d: %w", snapshots+1, err)
		}

		switch rec.Signal {
		case protocol.SignalEnd:
			return "", "", errGameOver
		case protocol.SignalEndInit:
			if err := s.world.Seal(); err != nil {
				return "", "", fmt.Errorf("%w: %w", ErrHandshake, err)
			}
			width, height := s.world.Bounds()
			s.log.Info("init complete", "snapshots", snapshots, "objects", s.world.Len(),
				"width", width, "height", height, "types", s.world.Stats())
			return self, enemy, nil
		case protocol.SignalMessage:
			s.world.ApplyDelta(rec.Message.DeletedObjects, rec.Message.UpdatedObjects)
		}
	}
}

package protocol

import (
	"fmt"

	"github.com/lab1702/tank-agent/game"
)

// Sentinel tokens sent by the game server in place of a message.
const (
	EndInitToken = "END_INIT"
	EndToken     = "END"
)

// Signal says what kind of record was received.
type Signal int

// Record kinds
const (
	SignalMessage Signal = iota // Regular message, see Record.Message
	SignalEndInit               // Init phase is over; turns start with the next record
	SignalEnd                   // Game over
)

func (s Signal) String() string {
	switch s {
	case SignalMessage:
		return "message"
	case SignalEndInit:
		return EndInitToken
	case SignalEnd:
		return EndToken
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// Message is the body of every non-sentinel record. The first init message
// carries only the tank ids; later init messages carry only updated objects;
// turn messages carry deletions and updates.
type Message struct {
	YourTankID     game.ID                 `json:"your-tank-id,omitempty"`
	EnemyTankID    game.ID                 `json:"enemy-tank-id,omitempty"`
	DeletedObjects []game.ID               `json:"deleted_objects,omitempty"`
	UpdatedObjects map[game.ID]game.Object `json:"updated_objects,omitempty"`
}

// Record is one decoded inbound frame or line.
type Record struct {
	Signal  Signal
	Message Message
}

// envelope is the outer object wrapping every message on the wire.
type envelope struct {
	Message Message `json:"message"`
}

func signalRecord(token string) (Record, error) {
	switch token {
	case EndInitToken:
		return Record{Signal: SignalEndInit}, nil
	case EndToken:
		return Record{Signal: SignalEnd}, nil
	default:
		return Record{}, fmt.Errorf("%w: %q", ErrUnexpectedSignal, token)
	}
}

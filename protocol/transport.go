package protocol

//go:generate go tool mockgen -destination=./mocks/transport_mock.go -package=mocks . Transport

import (
	"context"

	"github.com/lab1702/tank-agent/game"
)

// Transport carries records from and actions to the game server. Reads block
// until a record arrives or ctx is done; there is no read timeout.
type Transport interface {
	Read(ctx context.Context) (Record, error)
	Write(ctx context.Context, act game.Action) error
	Close() error
}

package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lab1702/tank-agent/game"
)

var (
	// ErrUnexpectedSignal is returned for a bare string record that is not a
	// known sentinel.
	ErrUnexpectedSignal = errors.New("unexpected signal")

	// ErrUnknownCodec is returned by CodecByName.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Codec converts between wire bytes and records/actions.
type Codec interface {
	Name() string
	Decode(data []byte) (Record, error)
	Encode(act game.Action) ([]byte, error)
	// Binary reports whether encoded frames must be sent as binary.
	Binary() bool
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "json", "":
		return JSON{}, nil
	case "msgpack":
		return Msgpack{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// JSON is the default text codec. Sentinels may arrive bare (END) or as a
// JSON string ("END").
type JSON struct{}

func (JSON) Name() string { return "json" }
func (JSON) Binary() bool { return false }

func (JSON) Decode(data []byte) (Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Record{}, errors.New("empty record")
	}

	switch data[0] {
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Record{}, fmt.Errorf("decode message: %w", err)
		}
		return Record{Signal: SignalMessage, Message: env.Message}, nil
	case '"':
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return Record{}, fmt.Errorf("decode signal: %w", err)
		}
		return signalRecord(token)
	default:
		return signalRecord(string(data))
	}
}

func (JSON) Encode(act game.Action) ([]byte, error) {
	return json.Marshal(act)
}

// Msgpack is the binary codec. Field names are shared with JSON.
type Msgpack struct{}

func (Msgpack) Name() string { return "msgpack" }
func (Msgpack) Binary() bool { return true }

func (Msgpack) Decode(data []byte) (Record, error) {
	if len(data) == 0 {
		return Record{}, errors.New("empty record")
	}

	var token string
	if err := msgpack.Unmarshal(data, &token); err == nil {
		return signalRecord(token)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return Record{}, fmt.Errorf("decode message: %w", err)
	}
	return Record{Signal: SignalMessage, Message: env.Message}, nil
}

func (Msgpack) Encode(act game.Action) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(act); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

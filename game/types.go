package game

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

// ID identifies a game object. The server keys objects by string ids but may
// send plain numbers in id fields; those keep their decimal text.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("object id %s: must be a string or number", data)
	}
	*id = ID(n.String())
	return nil
}

func (id *ID) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return fmt.Errorf("object id: %w", err)
	}
	switch v := raw.(type) {
	case string:
		*id = ID(v)
	case int64:
		*id = ID(strconv.FormatInt(v, 10))
	case uint64:
		*id = ID(strconv.FormatUint(v, 10))
	case float64:
		*id = ID(strconv.FormatFloat(v, 'f', -1, 64))
	case nil:
		*id = ""
	default:
		return fmt.Errorf("object id: unexpected %T", raw)
	}
	return nil
}

// ObjectType is the closed set of object tags the game server sends.
type ObjectType int

// Object tags as numbered by the game server
const (
	ObjectUnknown          ObjectType = 0 // Anything the server sends that we do not recognize
	ObjectTank             ObjectType = 1
	ObjectBullet           ObjectType = 2
	ObjectWall             ObjectType = 3
	ObjectDestructibleWall ObjectType = 4
	ObjectBoundary         ObjectType = 5 // Static outer map edge
	ObjectClosingBoundary  ObjectType = 6 // Shrinking arena polygon
	ObjectPowerup          ObjectType = 7
)

var objectTypeNames = map[ObjectType]string{
	ObjectUnknown:          "UNKNOWN",
	ObjectTank:             "TANK",
	ObjectBullet:           "BULLET",
	ObjectWall:             "WALL",
	ObjectDestructibleWall: "DESTRUCTIBLE_WALL",
	ObjectBoundary:         "BOUNDARY",
	ObjectClosingBoundary:  "CLOSING_BOUNDARY",
	ObjectPowerup:          "POWERUP",
}

// objectTypeOf maps a raw server tag onto the enumeration; unrecognized tags
// collapse to ObjectUnknown.
func objectTypeOf(tag int64) ObjectType {
	t := ObjectType(tag)
	if _, ok := objectTypeNames[t]; !ok {
		return ObjectUnknown
	}
	return t
}

func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsBoundary reports whether the object marks an arena edge rather than an obstacle.
func (t ObjectType) IsBoundary() bool {
	return t == ObjectBoundary || t == ObjectClosingBoundary
}

func (t *ObjectType) UnmarshalJSON(data []byte) error {
	tag, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("object type %s: %w", data, err)
	}
	*t = objectTypeOf(tag)
	return nil
}

func (t ObjectType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(t))), nil
}

func (t *ObjectType) DecodeMsgpack(dec *msgpack.Decoder) error {
	tag, err := dec.DecodeInt64()
	if err != nil {
		return fmt.Errorf("object type: %w", err)
	}
	*t = objectTypeOf(tag)
	return nil
}

func (t ObjectType) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(int64(t))
}

// PowerupType is the kind of pickup carried by a POWERUP object.
type PowerupType string

// Pickup kinds
const (
	PowerupHealth PowerupType = "HEALTH"
	PowerupDamage PowerupType = "DAMAGE"
	PowerupSpeed  PowerupType = "SPEED"
)

// Priority reports whether the agent goes out of its way to collect this pickup.
func (p PowerupType) Priority() bool {
	return p == PowerupHealth || p == PowerupDamage
}

// Object is a single game object as last reported by the server.
type Object struct {
	Type        ObjectType  `json:"type"`
	Position    Position    `json:"position"`
	Velocity    *mgl64.Vec2 `json:"velocity,omitempty"`
	PowerupType PowerupType `json:"powerup_type,omitempty"`
}

// Speed returns the magnitude of the reported velocity. A missing velocity is
// treated as standing still.
func (o *Object) Speed() float64 {
	if o.Velocity == nil {
		return 0
	}
	return o.Velocity.Len()
}

// Stationary reports whether the velocity is exactly zero.
func (o *Object) Stationary() bool {
	return o.Velocity == nil || *o.Velocity == (mgl64.Vec2{})
}

// IsPriorityPickup reports whether o is a powerup of a kind worth seeking.
func (o *Object) IsPriorityPickup() bool {
	return o.Type == ObjectPowerup && o.PowerupType.Priority()
}

// Action is the single response sent back to the server each turn. Move and
// Path are mutually exclusive; Shoot is independent of both.
type Action struct {
	Move  *float64    `json:"move,omitempty"`  // Heading in degrees
	Path  *mgl64.Vec2 `json:"path,omitempty"`  // Point to path towards
	Shoot *float64    `json:"shoot,omitempty"` // Firing heading in degrees
}

// Empty reports whether the action carries no command at all.
func (a Action) Empty() bool {
	return a.Move == nil && a.Path == nil && a.Shoot == nil
}

func (a Action) String() string {
	out, err := json.Marshal(a)
	if err != nil {
		return "{}"
	}
	return string(out)
}

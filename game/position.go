package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrBadPosition is returned when a position is neither a point nor a polygon.
var ErrBadPosition = errors.New("position must be [x,y] or [[x,y],...]")

// Position is either a single point (tanks, bullets, pickups, walls) or an
// ordered polygon (boundary-like objects).
type Position struct {
	Point   mgl64.Vec2
	Polygon []mgl64.Vec2
}

// At returns a point position.
func At(x, y float64) Position {
	return Position{Point: mgl64.Vec2{x, y}}
}

// PolygonOf returns a polygon position.
func PolygonOf(points ...mgl64.Vec2) Position {
	return Position{Polygon: points}
}

// IsPolygon reports whether the position is a polygon.
func (p Position) IsPolygon() bool {
	return p.Polygon != nil
}

// Anchor is the single point used for distance and bearing math: the point
// itself, or the vertex centroid of a polygon.
func (p Position) Anchor() mgl64.Vec2 {
	if !p.IsPolygon() {
		return p.Point
	}
	return Centroid(p.Polygon)
}

// Points returns every coordinate making up the position.
func (p Position) Points() []mgl64.Vec2 {
	if p.IsPolygon() {
		return p.Polygon
	}
	return []mgl64.Vec2{p.Point}
}

func (p Position) raw() any {
	if p.IsPolygon() {
		return p.Polygon
	}
	return p.Point
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.raw())
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return p.fromRaw(raw)
}

func (p Position) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(p.raw())
}

func (p *Position) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	return p.fromRaw(raw)
}

// fromRaw accepts the generic decoded form shared by every codec.
func (p *Position) fromRaw(raw any) error {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return ErrBadPosition
	}

	if _, nested := items[0].([]any); !nested {
		pt, err := pointFromRaw(items)
		if err != nil {
			return err
		}
		*p = Position{Point: pt}
		return nil
	}

	poly := make([]mgl64.Vec2, 0, len(items))
	for i, item := range items {
		coords, ok := item.([]any)
		if !ok {
			return fmt.Errorf("vertex %d: %w", i, ErrBadPosition)
		}
		pt, err := pointFromRaw(coords)
		if err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
		poly = append(poly, pt)
	}
	*p = Position{Polygon: poly}
	return nil
}

func pointFromRaw(coords []any) (mgl64.Vec2, error) {
	if len(coords) != 2 {
		return mgl64.Vec2{}, ErrBadPosition
	}
	x, okX := toFloat(coords[0])
	y, okY := toFloat(coords[1])
	if !okX || !okY {
		return mgl64.Vec2{}, ErrBadPosition
	}
	return mgl64.Vec2{x, y}, nil
}

// toFloat normalizes decoded numbers. encoding/json yields float64; msgpack
// yields the narrowest integer type that holds each array element.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

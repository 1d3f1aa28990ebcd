package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

func TestObjectFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    func(t *testing.T, o Object)
	}{
		{
			name:    "Tank with velocity",
			payload: `{"type": 1, "position": [10.5, 20], "velocity": [3, -4]}`,
			want: func(t *testing.T, o Object) {
				if o.Type != ObjectTank || o.Position.IsPolygon() {
					t.Errorf("got %+v, want point tank", o)
				}
				if o.Position.Point != (mgl64.Vec2{10.5, 20}) {
					t.Errorf("position = %v", o.Position.Point)
				}
				if o.Speed() != 5 {
					t.Errorf("Speed() = %v, want 5", o.Speed())
				}
			},
		},
		{
			name:    "Closing boundary polygon",
			payload: `{"type": 6, "position": [[0, 100], [0, 0], [100, 0], [100, 100]]}`,
			want: func(t *testing.T, o Object) {
				if !o.Position.IsPolygon() || len(o.Position.Polygon) != 4 {
					t.Fatalf("got %+v, want 4-point polygon", o.Position)
				}
				if o.Position.Anchor() != (mgl64.Vec2{50, 50}) {
					t.Errorf("Anchor() = %v, want centroid (50,50)", o.Position.Anchor())
				}
			},
		},
		{
			name:    "Priority powerup",
			payload: `{"type": 7, "position": [1, 2], "powerup_type": "DAMAGE"}`,
			want: func(t *testing.T, o Object) {
				if !o.IsPriorityPickup() {
					t.Errorf("DAMAGE powerup should be a priority pickup")
				}
				if !o.Stationary() {
					t.Errorf("missing velocity should count as stationary")
				}
			},
		},
		{
			name:    "Unrecognized tag decodes as unknown",
			payload: `{"type": 42, "position": [0, 0]}`,
			want: func(t *testing.T, o Object) {
				if o.Type != ObjectUnknown {
					t.Errorf("Type = %v, want UNKNOWN", o.Type)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Object
			if err := json.Unmarshal([]byte(tt.payload), &o); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			tt.want(t, o)
		})
	}
}

func TestBadPositions(t *testing.T) {
	for _, payload := range []string{`[]`, `[1]`, `[1, 2, 3]`, `["a", "b"]`, `{"x": 1}`, `[[1, 2], 3]`} {
		var p Position
		if err := json.Unmarshal([]byte(payload), &p); !errors.Is(err, ErrBadPosition) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrBadPosition", payload, err)
		}
	}
}

func TestPositionMsgpackMatchesJSON(t *testing.T) {
	positions := []Position{
		At(12, -7.25),
		PolygonOf(mgl64.Vec2{0, 10}, mgl64.Vec2{0, 0}, mgl64.Vec2{10, 0}, mgl64.Vec2{10, 10}),
	}
	for _, want := range positions {
		data, err := msgpack.Marshal(want)
		if err != nil {
			t.Fatalf("msgpack.Marshal error = %v", err)
		}
		var got Position
		if err := msgpack.Unmarshal(data, &got); err != nil {
			t.Fatalf("msgpack.Unmarshal error = %v", err)
		}
		if got.Anchor() != want.Anchor() || got.IsPolygon() != want.IsPolygon() {
			t.Errorf("msgpack position = %+v, want %+v", got, want)
		}
	}
}

func TestMsgpackIntegerCoordinates(t *testing.T) {
	// Servers frequently pack whole coordinates as integers
	data, err := msgpack.Marshal(map[string]any{"type": 1, "position": []int{300, 0}})
	if err != nil {
		t.Fatalf("msgpack.Marshal error = %v", err)
	}
	var o Object
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&o); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if o.Type != ObjectTank || o.Position.Point != (mgl64.Vec2{300, 0}) {
		t.Errorf("decoded %+v, want tank at (300,0)", o)
	}
}

func TestMsgpackIntegerWidths(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Position
	}{
		{"Fixints", []int{3, -7}, At(3, -7)},
		{"Unsigned 16 bit", []int{300, 7}, At(300, 7)},
		{"Signed 16 bit", []int{-300, 1000}, At(-300, 1000)},
		{"Wide values", []int64{1 << 40, -(1 << 33)}, At(1<<40, -(1 << 33))},
		{"Mixed with floats", []any{12, 0.5}, At(12, 0.5)},
		{"Integer polygon", [][]int{{1800, 1000}, {0, 0}}, PolygonOf(mgl64.Vec2{1800, 1000}, mgl64.Vec2{0, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := msgpack.Marshal(tt.in)
			if err != nil {
				t.Fatalf("msgpack.Marshal error = %v", err)
			}
			var got Position
			if err := msgpack.Unmarshal(data, &got); err != nil {
				t.Fatalf("msgpack.Unmarshal error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestActionJSON(t *testing.T) {
	move := 90.0
	shoot := 12.5
	act := Action{Move: &move, Shoot: &shoot}

	if got, want := act.String(), `{"move":90,"shoot":12.5}`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
	if (Action{}).String() != "{}" || !(Action{}).Empty() {
		t.Errorf("zero action should encode as {} and be empty")
	}
}

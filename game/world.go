package game

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrMissingObject means an object the agent depends on is not in the world.
	// The update stream is corrupt and the session cannot continue.
	ErrMissingObject = errors.New("required object missing from world")

	// ErrBadBoundary means the closing boundary does not carry four corners.
	ErrBadBoundary = errors.New("closing boundary needs four corners")

	// ErrNotSealed is returned by queries that need the init phase to be over.
	ErrNotSealed = errors.New("world not sealed")
)

// Corner indices into Corners. The server lists the closing boundary
// starting top-right and going clockwise; Corners always holds them in this
// order regardless.
const (
	TopLeft = iota
	BottomLeft
	BottomRight
	TopRight
)

// Corners are the four vertices of the closing boundary in the fixed order
// top-left, bottom-left, bottom-right, top-right.
type Corners [4]mgl64.Vec2

// Contour converts the corners into a polygon contour for containment tests.
func (c Corners) Contour() polyclip.Contour {
	contour := make(polyclip.Contour, len(c))
	for i, p := range c {
		contour[i] = polyclip.Point{X: p.X(), Y: p.Y()}
	}
	return contour
}

// Contains reports whether p lies inside the arena.
func (c Corners) Contains(p mgl64.Vec2) bool {
	return c.Contour().Contains(polyclip.Point{X: p.X(), Y: p.Y()})
}

// Center returns the centroid of the arena.
func (c Corners) Center() mgl64.Vec2 {
	return Centroid(c[:])
}

// World is the canonical store of every object the server currently
// considers live. It is owned by a single turn loop and is not safe for
// concurrent use.
type World struct {
	objects   map[ID]*Object
	closingID ID
	width     float64
	height    float64
	sealed    bool
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{objects: make(map[ID]*Object)}
}

// ApplyDelta removes every deleted id (absent ids are ignored) and then
// upserts every updated object. Existing entries are overwritten in place so
// pointers handed out earlier keep observing the latest state.
func (w *World) ApplyDelta(deleted []ID, updated map[ID]Object) {
	for _, id := range deleted {
		delete(w.objects, id)
	}
	for id, obj := range updated {
		if cur, ok := w.objects[id]; ok {
			*cur = obj
			continue
		}
		o := obj
		w.objects[id] = &o
	}
}

// Get returns the object for id.
func (w *World) Get(id ID) (*Object, bool) {
	o, ok := w.objects[id]
	return o, ok
}

// Require returns the object for id or ErrMissingObject.
func (w *World) Require(id ID) (*Object, error) {
	o, ok := w.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingObject, id)
	}
	return o, nil
}

// Len returns the number of live objects.
func (w *World) Len() int {
	return len(w.objects)
}

// All iterates over every live object. The world must not be modified while
// iterating.
func (w *World) All() iter.Seq2[ID, *Object] {
	return maps.All(w.objects)
}

// Seal ends the init phase: it locates the closing boundary and fixes the map
// bounds from the static boundary markers. Bounds never change afterwards.
func (w *World) Seal() error {
	if w.sealed {
		return nil
	}

	found := false
	for id, obj := range w.objects {
		if obj.Type == ObjectClosingBoundary {
			w.closingID = id
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: no closing boundary", ErrMissingObject)
	}

	width, height, err := w.boundsFromBoundaryObjects()
	if err != nil {
		return err
	}
	w.width, w.height = width, height
	w.sealed = true
	return nil
}

// boundsFromBoundaryObjects scans every BOUNDARY marker and returns the
// largest X and Y seen across all of their coordinates.
func (w *World) boundsFromBoundaryObjects() (float64, float64, error) {
	var contour polyclip.Contour
	for _, obj := range w.objects {
		if obj.Type != ObjectBoundary {
			continue
		}
		for _, p := range obj.Position.Points() {
			contour.Add(polyclip.Point{X: p.X(), Y: p.Y()})
		}
	}
	if len(contour) == 0 {
		return 0, 0, fmt.Errorf("%w: no boundary markers", ErrMissingObject)
	}
	box := contour.BoundingBox()
	return box.Max.X, box.Max.Y, nil
}

// Bounds returns the map width and height fixed at Seal time.
func (w *World) Bounds() (width, height float64) {
	return w.width, w.height
}

// Sealed reports whether the init phase is over.
func (w *World) Sealed() bool {
	return w.sealed
}

// ClosingBoundaryID returns the id of the shrinking arena polygon.
func (w *World) ClosingBoundaryID() ID {
	return w.closingID
}

// Corners returns the current four corners of the closing boundary object.
func (w *World) Corners(id ID) (Corners, error) {
	var c Corners
	obj, err := w.Require(id)
	if err != nil {
		return c, err
	}
	pts := obj.Position.Points()
	if !obj.Position.IsPolygon() || len(pts) < len(c) {
		return c, fmt.Errorf("%w: %q has %d points", ErrBadBoundary, id, len(pts))
	}
	return cornersOf(pts[:len(c)]), nil
}

// cornersOf labels the vertices of an axis-aligned rectangle by position.
// The top-left corner has the smallest x-y, the bottom-left the smallest x+y,
// and so on; the first vertex wins ties.
func cornersOf(pts []mgl64.Vec2) Corners {
	var c Corners
	for i := range c {
		c[i] = pts[0]
	}
	for _, p := range pts[1:] {
		diff, sum := p.X()-p.Y(), p.X()+p.Y()
		if diff < c[TopLeft].X()-c[TopLeft].Y() {
			c[TopLeft] = p
		}
		if sum < c[BottomLeft].X()+c[BottomLeft].Y() {
			c[BottomLeft] = p
		}
		if diff > c[BottomRight].X()-c[BottomRight].Y() {
			c[BottomRight] = p
		}
		if sum > c[TopRight].X()+c[TopRight].Y() {
			c[TopRight] = p
		}
	}
	return c
}

// Arena returns the corners of the closing boundary found at Seal time.
func (w *World) Arena() (Corners, error) {
	if !w.sealed {
		return Corners{}, ErrNotSealed
	}
	return w.Corners(w.closingID)
}

// Stats counts live objects per type.
func (w *World) Stats() map[ObjectType]int {
	counts := make(map[ObjectType]int)
	for _, obj := range w.objects {
		counts[obj.Type]++
	}
	return counts
}

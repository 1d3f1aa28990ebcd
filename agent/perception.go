package agent

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/game"
)

// perceptionStats summarizes one perception pass for logging.
type perceptionStats struct {
	retained int
	walls    int
	bullets  int
	unknown  int
}

// perceive rebuilds the detectable set in place from the world.
//
// Priority pickups are kept at any range. Everything else beyond radius is
// dropped; within range, tanks and destructible walls are kept while plain
// walls, bullets and non-priority pickups are only observed. Entries whose
// object left the world are removed. The returned candidate is the nearest
// priority pickup, reported only when bound is false.
func perceive(set DetectableSet, w *game.World, selfID game.ID, self mgl64.Vec2, radius float64, bound bool) (candidate *game.ID, stats perceptionStats) {
	for id := range set {
		if _, ok := w.Get(id); !ok {
			delete(set, id)
		}
	}

	bestDist := 0.0
	for id, obj := range w.All() {
		if id == selfID || obj.Type.IsBoundary() {
			continue
		}

		dist := game.Distance(self, obj.Position.Anchor())

		if obj.IsPriorityPickup() {
			set[id] = obj
			if !bound && (candidate == nil || dist < bestDist || (dist == bestDist && id < *candidate)) {
				candidate = ptr(id)
				bestDist = dist
			}
			continue
		}

		if dist > radius {
			delete(set, id)
			continue
		}

		switch obj.Type {
		case game.ObjectTank, game.ObjectDestructibleWall:
			set[id] = obj
		case game.ObjectWall:
			stats.walls++
			delete(set, id)
		case game.ObjectPowerup:
			// non-priority pickups are not worth a detour
			delete(set, id)
		case game.ObjectBullet:
			stats.bullets++
			delete(set, id)
		case game.ObjectUnknown:
			stats.unknown++
			delete(set, id)
		case game.ObjectBoundary, game.ObjectClosingBoundary:
			// filtered above
		}
	}

	stats.retained = len(set)
	return candidate, stats
}

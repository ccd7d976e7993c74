package world

import (
	"math"

	"skirmish/internal/geom"
	"skirmish/internal/sim/tuning"
)

// stepFollowers drives companions: controllable actors that are neither the
// controlled actor nor combatants. Pursuit has hysteresis, carried in the
// Walking flag: it starts above the follow distance and stops under the
// strictly smaller stop distance. Followers synthesize a movement intent and go through the
// regular movement resolver, so they collide and slide like any other actor.
//
// Returns the set of actor ids moved this tick so the gravity pass skips them.
func (w *World) stepFollowers(dt float64) map[string]bool {
	moved := map[string]bool{}
	leader := w.actors[w.controlledID]
	if leader == nil {
		return moved
	}

	for _, a := range w.sortedActors() {
		if a.Faction != FactionControllable || a.ID == w.controlledID {
			continue
		}
		if w.session != nil && w.session.members[a.ID] {
			continue
		}
		if !a.Alive() {
			continue
		}

		dist := geom.DistXZ(a.Pos, leader.Pos)
		pursuing := a.Walking
		if !pursuing && dist > tuning.FollowStartDistance {
			pursuing = true
		} else if pursuing && dist < tuning.FollowStopDistance {
			pursuing = false
		}
		if !pursuing {
			continue
		}

		yaw := math.Atan2(leader.Pos.X-a.Pos.X, leader.Pos.Z-a.Pos.Z)
		w.resolveMovement(a, Intent{Move: [2]float64{0, 1}, Yaw: yaw}, tuning.FollowSpeed, dt)
		moved[a.ID] = true
	}
	return moved
}

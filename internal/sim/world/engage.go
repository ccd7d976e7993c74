package world

import (
	"sort"

	"skirmish/internal/geom"
	"skirmish/internal/protocol"
	"skirmish/internal/sim/tuning"
)

// detectEngagement runs every tick while no session is active. The first
// controllable/hostile pair strictly inside the engagement radius starts a
// session; distance exactly at the radius does not engage.
func (w *World) detectEngagement() {
	if w.session != nil {
		return
	}
	const radiusSq = tuning.EngagementRadius * tuning.EngagementRadius

	for _, a := range w.sortedActors() {
		if a.Faction != FactionControllable || !a.Alive() {
			continue
		}
		for _, h := range w.sortedActors() {
			if h.Faction != FactionHostile || !h.Alive() {
				continue
			}
			if geom.DistSqXZ(a.Pos, h.Pos) < radiusSq {
				w.startCombat(h)
				return
			}
		}
	}
}

// startCombat builds the combatant set: every controllable actor, the
// triggering hostile, and any live hostile strictly within the engagement
// radius of the trigger (one hop, so a nearby pack is pulled in together).
func (w *World) startCombat(trigger *Actor) {
	const radiusSq = tuning.EngagementRadius * tuning.EngagementRadius

	members := map[string]bool{trigger.ID: true}
	var order []string

	for _, a := range w.sortedActors() {
		switch {
		case a.Faction == FactionControllable:
			a.Walking = false
			members[a.ID] = true
		case a.ID != trigger.ID && a.Alive() &&
			geom.DistSqXZ(a.Pos, trigger.Pos) < radiusSq:
			members[a.ID] = true
		}
	}
	for id := range members {
		order = append(order, id)
	}
	// sortedActors gave us map-independent membership; the shuffle below is
	// the only randomness in the core and comes from the world's seeded rng.
	sort.Strings(order)
	w.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	w.session = &CombatSession{Order: order, members: members, fresh: true}
	w.log.Printf("combat started: %d combatants, trigger=%s", len(order), trigger.ID)
	w.emit(protocol.Event{"type": protocol.EventCombatStart, "order": append([]string(nil), order...)})
}

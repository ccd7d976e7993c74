package world

import (
	"math"

	"skirmish/internal/geom"
	"skirmish/internal/protocol"
	"skirmish/internal/sim/tuning"
)

// CombatSession is the transient state of one fight: a shuffled rotation of
// combatant ids, the rotation cursor and the accumulating turn clock. It is
// created by engagement detection and destroyed by the end condition; there
// is no session state outside this struct.
type CombatSession struct {
	Order []string
	Index int
	Timer float64

	members map[string]bool

	// fresh is set on the starting tick: the clock must not accumulate until
	// the following tick, so a session never resolves a turn the instant it
	// is created.
	fresh bool
}

// Members reports whether id is part of the session.
func (s *CombatSession) Members(id string) bool { return s.members[id] }

// stepCombat advances the session clock and resolves as many full turns as
// the elapsed time covers, carrying the remainder over. Hostile combatants
// re-face their nearest live opponent every tick regardless of the clock.
func (w *World) stepCombat(dt float64) {
	s := w.session
	if s == nil {
		return
	}

	w.faceHostiles()

	if s.fresh {
		s.fresh = false
		return
	}

	s.Timer += dt
	for w.session != nil && s.Timer >= tuning.TurnDuration {
		s.Timer -= tuning.TurnDuration
		w.resolveTurn()
	}
}

func (w *World) resolveTurn() {
	s := w.session
	if len(s.Order) == 0 {
		w.endCombat()
		return
	}

	id := s.Order[s.Index]
	actor := w.actors[id]
	// Dead or walking actors forfeit the turn; the turn is still consumed.
	if actor != nil && actor.Alive() && !actor.Walking {
		if target := w.selectTarget(actor); target != nil {
			w.attack(actor, target)
		}
	}

	if len(s.Order) > 0 {
		s.Index = (s.Index + 1) % len(s.Order)
	}

	if !w.hasLiveCombatant(FactionControllable) || !w.hasLiveCombatant(FactionHostile) {
		w.endCombat()
	}
}

// selectTarget dispatches on faction: controllable actors prefer their chosen
// target when it is still a live hostile combatant (stale references are
// cleared here, lazily); hostiles always take the nearest live controllable
// combatant and never read the target field.
func (w *World) selectTarget(a *Actor) *Actor {
	if a.Faction == FactionControllable {
		if a.TargetID != "" {
			t := w.actors[a.TargetID]
			if t != nil && t.Alive() && t.Faction == FactionHostile && w.session.members[t.ID] {
				return t
			}
			a.TargetID = ""
		}
		return w.nearestLiveCombatant(a, FactionHostile)
	}
	return w.nearestLiveCombatant(a, FactionControllable)
}

func (w *World) nearestLiveCombatant(from *Actor, faction Faction) *Actor {
	var best *Actor
	bestSq := math.Inf(1)
	for _, id := range w.session.Order {
		c := w.actors[id]
		if c == nil || c.ID == from.ID || c.Faction != faction || !c.Alive() {
			continue
		}
		if d := geom.DistSqXZ(from.Pos, c.Pos); d < bestSq {
			bestSq = d
			best = c
		}
	}
	return best
}

// attack applies the best qualifying attack: the highest-damage entry whose
// range covers the target. With nothing in range the hit still lands for
// the 1-point default.
func (w *World) attack(attacker, target *Actor) {
	distSq := geom.DistSqXZ(attacker.Pos, target.Pos)

	damage := tuning.DefaultHitDamage
	bestDamage := -1
	for _, atk := range attacker.Weapon {
		if atk.Range*atk.Range >= distSq && atk.Damage > bestDamage {
			bestDamage = atk.Damage
		}
	}
	if bestDamage >= 0 {
		damage = bestDamage
	}

	target.HP -= damage
	if target.HP < 0 {
		target.HP = 0
	}
	w.emit(protocol.Event{
		"type":        protocol.EventShot,
		"attacker_id": attacker.ID,
		"target_id":   target.ID,
		"damage":      damage,
	})

	if target.HP == 0 && target.Faction == FactionHostile {
		w.removeFromSession(target.ID)
		w.defeated = append(w.defeated, target.ID)
	}
	// Controllable actors at 0 hp stay in the rotation and are skipped; the
	// end condition is what detects the squad's defeat.
}

// removeFromSession drops a dead hostile from the rotation, pulling the
// cursor back when the removed slot was at or before it so the next advance
// lands on the correct actor.
func (w *World) removeFromSession(id string) {
	s := w.session
	for i, oid := range s.Order {
		if oid != id {
			continue
		}
		s.Order = append(s.Order[:i], s.Order[i+1:]...)
		if i <= s.Index && s.Index > 0 {
			s.Index--
		}
		break
	}
	delete(s.members, id)
}

func (w *World) hasLiveCombatant(faction Faction) bool {
	for id := range w.session.members {
		a := w.actors[id]
		if a != nil && a.Faction == faction && a.Alive() {
			return true
		}
	}
	return false
}

// endCombat fires the end condition: any hostile member still at 0 hp that
// was not already reported this turn joins the defeated list, survivors stop
// walking, and the session is destroyed.
func (w *World) endCombat() {
	s := w.session

	already := map[string]bool{}
	for _, id := range w.defeated {
		already[id] = true
	}
	for id := range s.members {
		a := w.actors[id]
		if a == nil {
			continue
		}
		if a.Faction == FactionHostile && !a.Alive() && !already[id] {
			w.defeated = append(w.defeated, id)
		}
		a.Walking = false
	}

	w.log.Printf("combat ended: %d defeated", len(w.defeated))
	w.emit(protocol.Event{"type": protocol.EventCombatEnd, "defeated": append([]string(nil), w.defeated...)})
	w.session = nil
}

// faceHostiles keeps hostile combatants visually oriented at their nearest
// live opponent between turns.
func (w *World) faceHostiles() {
	for _, id := range w.session.Order {
		h := w.actors[id]
		if h == nil || h.Faction != FactionHostile || !h.Alive() {
			continue
		}
		if t := w.nearestLiveCombatant(h, FactionControllable); t != nil {
			faceToward(h, t.Pos)
		}
	}
}

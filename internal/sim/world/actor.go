package world

import (
	"sort"

	"skirmish/internal/geom"
	"skirmish/internal/sim/layout"
	"skirmish/internal/sim/tuning"
)

type Faction string

const (
	FactionControllable Faction = "controllable"
	FactionHostile      Faction = "hostile"
)

// Attack is one weapon entry. Stun and Blast are loaded from the layout but
// not yet consumed by the turn resolver.
type Attack struct {
	Damage int
	Range  float64
	Stun   int
	Blast  float64
}

// Actor is one humanoid in the world. Horizontal speed is intent-driven, not
// integrated, so only the vertical velocity is state.
type Actor struct {
	ID      string
	Faction Faction

	Pos      geom.Vec3 // feet position; y=0 is the ground plane
	Yaw      float64   // radians about the vertical axis
	VelY     float64
	Grounded bool

	// Walking is derived each tick from horizontal intent while grounded. The
	// combat scheduler reads it (a walking actor forfeits its turn) and the
	// follow controller uses it as its pursuit flag.
	Walking bool

	HP int

	// TargetID is a weak reference resolved through the actor store on every
	// use and cleared lazily when the referent is dead, removed or self.
	TargetID string

	Weapon []Attack
}

func (a *Actor) Alive() bool { return a.HP > 0 }

// Box is the actor's collision body at its current position.
func (a *Actor) Box() geom.AABB {
	return geom.BoxAt(a.Pos, tuning.ActorHalfWidth, tuning.ActorHeight)
}

func actorFromDef(def layout.ActorDef) *Actor {
	a := &Actor{
		ID:      def.ID,
		Faction: Faction(def.Faction),
		Pos:     geom.Vec3{X: def.Pos[0], Y: def.Pos[1], Z: def.Pos[2]},
		Yaw:     def.Yaw,
		HP:      def.HP,
	}
	for _, w := range def.Weapon {
		a.Weapon = append(a.Weapon, Attack{Damage: w.Damage, Range: w.Range, Stun: w.Stun, Blast: w.Blast})
	}
	return a
}

// sortedActors returns actors in id order so every per-tick scan is
// deterministic regardless of map iteration.
func (w *World) sortedActors() []*Actor {
	ids := make([]string, 0, len(w.actors))
	for id := range w.actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Actor, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.actors[id])
	}
	return out
}

package world

import (
	"math"
	"testing"

	"skirmish/internal/protocol"
)

// session builds a combat session with an explicit rotation, sidestepping the
// seeded shuffle so turn order is under test control.
func session(w *World, order ...string) *CombatSession {
	members := map[string]bool{}
	for _, id := range order {
		members[id] = true
	}
	w.session = &CombatSession{Order: order, members: members}
	return w.session
}

func shotAttackers(w *World) []string {
	var out []string
	for _, e := range w.events {
		if e["type"] == protocol.EventShot {
			out = append(out, e["attacker_id"].(string))
		}
	}
	return out
}

func TestCombat_TurnRotationThroughVictory(t *testing.T) {
	w := testWorld(t, `{
	  "name": "duel",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 50, "range": 20}]},
	    {"id": "b", "faction": "hostile", "pos": [10, 0, 0], "hp": 100,
	     "weapon": [{"damage": 25, "range": 20}]}
	  ]
	}`)
	session(w, "b", "a")

	// b, a, b, a: b whittles a down by 25 a turn, a kills b on its second.
	for i := 0; i < 4; i++ {
		w.stepCombat(1.0)
	}

	if got := w.actors["a"].HP; got != 50 {
		t.Fatalf("a took two hits: hp=%d want 50", got)
	}
	if got := w.actors["b"].HP; got != 0 {
		t.Fatalf("b should be at zero: hp=%d", got)
	}
	if w.session != nil {
		t.Fatalf("session should end when the last hostile drops")
	}
	if len(w.defeated) != 1 || w.defeated[0] != "b" {
		t.Fatalf("defeated list: %v want [b]", w.defeated)
	}
	want := []string{"b", "a", "b", "a"}
	got := shotAttackers(w)
	if len(got) != len(want) {
		t.Fatalf("attacker sequence %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("attacker sequence %v want %v", got, want)
		}
	}
}

func TestCombat_TimerCarriesRemainder(t *testing.T) {
	w := testWorld(t, `{
	  "name": "carry",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [10, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	s := session(w, "a", "h")

	w.stepCombat(0.6)
	if n := len(shotAttackers(w)); n != 0 {
		t.Fatalf("0.6s is not a full turn, got %d shots", n)
	}
	w.stepCombat(0.6)
	if n := len(shotAttackers(w)); n != 1 {
		t.Fatalf("1.2s accumulated covers exactly one turn, got %d shots", n)
	}
	if math.Abs(s.Timer-0.2) > 1e-9 {
		t.Fatalf("remainder should carry: timer=%v want 0.2", s.Timer)
	}
}

func TestCombat_WalkingForfeitsTurn(t *testing.T) {
	w := testWorld(t, `{
	  "name": "forfeit",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [10, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	s := session(w, "a", "h")
	w.actors["a"].Walking = true

	w.stepCombat(1.0)
	if n := len(shotAttackers(w)); n != 0 {
		t.Fatalf("walking actor must not fire, got %d shots", n)
	}
	if s.Index != 1 {
		t.Fatalf("forfeited turn still consumes the slot: index=%d want 1", s.Index)
	}
}

func TestCombat_DeadSquadMemberStaysInRotation(t *testing.T) {
	w := testWorld(t, `{
	  "name": "downed",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "b", "faction": "controllable", "pos": [-2, 0, 0], "hp": 10},
	    {"id": "h", "faction": "hostile", "pos": [10, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	s := session(w, "b", "a", "h")
	w.actors["b"].HP = 0

	for i := 0; i < 3; i++ {
		w.stepCombat(1.0)
	}
	if len(s.Order) != 3 {
		t.Fatalf("downed squad member must stay in the rotation: %v", s.Order)
	}
	for _, id := range shotAttackers(w) {
		if id == "b" {
			t.Fatalf("downed actor must not act")
		}
	}
	if w.session == nil {
		t.Fatalf("session continues while a live member remains on each side")
	}
}

func TestCombat_BestQualifyingAttackWins(t *testing.T) {
	doc := `{
	  "name": "range",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 40, "range": 6}, {"damage": 25, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [0, 0, 0], "hp": 10000,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`
	cases := []struct {
		dist   float64
		damage int
	}{
		{5, 40},  // both qualify, highest damage wins
		{10, 25}, // short-range attack out of reach
		{30, 1},  // nothing qualifies, default hit
	}
	for _, tc := range cases {
		w := testWorld(t, doc)
		a, h := w.actors["a"], w.actors["h"]
		h.Pos.X = tc.dist
		before := h.HP
		w.attack(a, h)
		if got := before - h.HP; got != tc.damage {
			t.Fatalf("dist %v: damage %d want %d", tc.dist, got, tc.damage)
		}
	}
}

func TestCombat_DamageClampsAtZero(t *testing.T) {
	w := testWorld(t, `{
	  "name": "clamp",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 500, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [5, 0, 0], "hp": 30,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	session(w, "a", "h")
	w.attack(w.actors["a"], w.actors["h"])
	if got := w.actors["h"].HP; got != 0 {
		t.Fatalf("overkill must clamp to zero, got %d", got)
	}
}

func TestCombat_HostileIgnoresTargetField(t *testing.T) {
	w := testWorld(t, `{
	  "name": "nearest",
	  "actors": [
	    {"id": "far", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "near", "faction": "controllable", "pos": [8, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [10, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	session(w, "far", "near", "h")
	h := w.actors["h"]
	h.TargetID = "far"

	got := w.selectTarget(h)
	if got == nil || got.ID != "near" {
		t.Fatalf("hostile must take the nearest controllable, got %v", got)
	}
}

func TestCombat_StaleTargetClearedLazily(t *testing.T) {
	w := testWorld(t, `{
	  "name": "stale",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h1", "faction": "hostile", "pos": [10, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h2", "faction": "hostile", "pos": [12, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	session(w, "a", "h1", "h2")
	a := w.actors["a"]
	a.TargetID = "h1"
	w.actors["h1"].HP = 0

	got := w.selectTarget(a)
	if got == nil || got.ID != "h2" {
		t.Fatalf("dead target must fall through to nearest hostile, got %v", got)
	}
	if a.TargetID != "" {
		t.Fatalf("stale target reference should be cleared")
	}
}

func TestCombat_RotationIndexStableAcrossRemovals(t *testing.T) {
	w := testWorld(t, `{
	  "name": "shrink",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 999, "range": 50}]},
	    {"id": "h1", "faction": "hostile", "pos": [2, 0, 0], "hp": 10,
	     "weapon": [{"damage": 1, "range": 50}]},
	    {"id": "h2", "faction": "hostile", "pos": [3, 0, 0], "hp": 10,
	     "weapon": [{"damage": 1, "range": 50}]},
	    {"id": "h3", "faction": "hostile", "pos": [4, 0, 0], "hp": 10,
	     "weapon": [{"damage": 1, "range": 50}]}
	  ]
	}`)
	session(w, "h1", "a", "h2", "h3")
	w.actors["a"].TargetID = "h2"

	for i := 0; i < 7 && w.session != nil; i++ {
		w.stepCombat(1.0)
	}

	// h2 dies to the explicit target, then the stale reference clears and the
	// nearest live hostile goes next. The cursor never skips or repeats a
	// combatant across the removals.
	want := []string{"h1", "a", "h3", "h1", "a", "h3", "a"}
	got := shotAttackers(w)
	if len(got) != len(want) {
		t.Fatalf("attacker sequence %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("attacker sequence %v want %v", got, want)
		}
	}
	if w.session != nil {
		t.Fatalf("session should end with the last hostile")
	}
}

func TestCombat_HostilesFaceNearestOpponent(t *testing.T) {
	w := testWorld(t, `{
	  "name": "facing",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 10], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [0, 0, 0], "yaw": 2.5, "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	session(w, "a", "h")

	w.stepCombat(0.01) // below a turn, facing still updates
	if got := w.actors["h"].Yaw; math.Abs(got) > 1e-9 {
		t.Fatalf("hostile should face +z toward its opponent: yaw=%v", got)
	}
}

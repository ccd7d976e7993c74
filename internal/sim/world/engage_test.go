package world

import "testing"

func TestEngage_RadiusBoundaryIsExclusive(t *testing.T) {
	atBoundary := testWorld(t, `{
	  "name": "edge",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [15, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	atBoundary.StepOnce(nil, 1.0/60)
	if atBoundary.session != nil {
		t.Fatalf("distance exactly at the radius must not engage")
	}

	inside := testWorld(t, `{
	  "name": "edge",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h", "faction": "hostile", "pos": [14.9, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	inside.StepOnce(nil, 1.0/60)
	if inside.session == nil {
		t.Fatalf("distance under the radius must engage")
	}
}

func TestEngage_PullsInPackAroundTrigger(t *testing.T) {
	w := testWorld(t, `{
	  "name": "pack",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "b", "faction": "controllable", "pos": [1, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h1", "faction": "hostile", "pos": [10, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h2", "faction": "hostile", "pos": [20, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h3", "faction": "hostile", "pos": [40, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	w.actors["b"].Walking = true

	w.StepOnce(nil, 1.0/60)
	s := w.session
	if s == nil {
		t.Fatalf("expected a session: a and h1 are 10 apart")
	}

	// h1 triggers; h2 is within the radius of h1 (one hop), h3 is not. The
	// radius is not walked transitively outward from h2.
	want := map[string]bool{"a": true, "b": true, "h1": true, "h2": true}
	if len(s.Order) != len(want) {
		t.Fatalf("order %v, want members %v", s.Order, want)
	}
	for _, id := range s.Order {
		if !want[id] {
			t.Fatalf("unexpected combatant %s in %v", id, s.Order)
		}
	}

	if w.actors["b"].Walking {
		t.Fatalf("engagement must halt every squad member")
	}
}

func TestEngage_OrderIsSeededShuffle(t *testing.T) {
	doc := `{
	  "name": "seeded",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "b", "faction": "controllable", "pos": [1, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h1", "faction": "hostile", "pos": [10, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h2", "faction": "hostile", "pos": [12, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`
	w1 := testWorld(t, doc)
	w2 := testWorld(t, doc)
	w1.StepOnce(nil, 1.0/60)
	w2.StepOnce(nil, 1.0/60)

	if w1.session == nil || w2.session == nil {
		t.Fatalf("both worlds should engage")
	}
	if len(w1.session.Order) != len(w2.session.Order) {
		t.Fatalf("order length mismatch: %v vs %v", w1.session.Order, w2.session.Order)
	}
	for i := range w1.session.Order {
		if w1.session.Order[i] != w2.session.Order[i] {
			t.Fatalf("same seed must shuffle identically: %v vs %v",
				w1.session.Order, w2.session.Order)
		}
	}
}

func TestEngage_NoNewSessionWhileOneRuns(t *testing.T) {
	w := testWorld(t, `{
	  "name": "single",
	  "actors": [
	    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h1", "faction": "hostile", "pos": [10, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]},
	    {"id": "h2", "faction": "hostile", "pos": [40, 0, 0], "hp": 1000,
	     "weapon": [{"damage": 1, "range": 20}]}
	  ]
	}`)
	w.StepOnce(nil, 1.0/60)
	s := w.session
	if s == nil {
		t.Fatalf("expected a session")
	}

	// Drag the outside hostile into range; the running session must absorb
	// nothing and must not be replaced.
	w.actors["h2"].Pos.X = 5
	w.StepOnce(nil, 1.0/60)
	if w.session != s {
		t.Fatalf("a running session must not be replaced")
	}
	if w.session.members["h2"] {
		t.Fatalf("a running session must not absorb new combatants")
	}
}

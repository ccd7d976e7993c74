package world

import (
	"testing"

	"skirmish/internal/protocol"
)

const targetDoc = `{
  "name": "targets",
  "actors": [
    {"id": "a", "faction": "controllable", "pos": [0, 0, 0], "hp": 100,
     "weapon": [{"damage": 1, "range": 20}]},
    {"id": "b", "faction": "controllable", "pos": [-2, 0, 0], "hp": 100},
    {"id": "h", "faction": "hostile", "pos": [40, 0, 0], "hp": 100,
     "weapon": [{"damage": 1, "range": 20}]}
  ]
}`

func TestPick_LiveHostileSticks(t *testing.T) {
	w := testWorld(t, targetDoc)
	w.applyPick("h")
	if got := w.actors["a"].TargetID; got != "h" {
		t.Fatalf("target=%q want h", got)
	}
	if len(w.events) != 1 || w.events[0]["type"] != protocol.EventTarget {
		t.Fatalf("expected a single target event, got %v", w.events)
	}
}

func TestPick_InvalidPicksClear(t *testing.T) {
	cases := []struct {
		name string
		pick string
	}{
		{"nothing", ""},
		{"self", "a"},
		{"friendly", "b"},
		{"unknown", "ghost"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := testWorld(t, targetDoc)
			w.actors["a"].TargetID = "h"
			w.applyPick(tc.pick)
			if got := w.actors["a"].TargetID; got != "" {
				t.Fatalf("target should clear, got %q", got)
			}
			if len(w.events) != 1 || w.events[0]["type"] != protocol.EventTargetCleared {
				t.Fatalf("expected a cleared event, got %v", w.events)
			}
		})
	}
}

func TestPick_DeadHostileClears(t *testing.T) {
	w := testWorld(t, targetDoc)
	w.actors["h"].HP = 0
	w.applyPick("h")
	if got := w.actors["a"].TargetID; got != "" {
		t.Fatalf("dead hostile must not stick as target, got %q", got)
	}
}

func TestSwitchControl_OnlyControllableBodies(t *testing.T) {
	w := testWorld(t, targetDoc)

	w.switchControl("h")
	if w.controlledID != "a" {
		t.Fatalf("hostiles are never controllable, got %s", w.controlledID)
	}
	w.switchControl("ghost")
	if w.controlledID != "a" {
		t.Fatalf("unknown ids are ignored, got %s", w.controlledID)
	}
	w.switchControl("b")
	if w.controlledID != "b" {
		t.Fatalf("switch to b failed, got %s", w.controlledID)
	}
}

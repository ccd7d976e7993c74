package world

import "skirmish/internal/protocol"

// applyPick maps the client's ray-test result onto the controlled actor's
// target field. Only a live hostile other than self sticks; picking self,
// nothing, or a friendly clears the target. The emitted events are the
// renderer's highlight toggle and nothing else.
func (w *World) applyPick(targetID string) {
	c := w.actors[w.controlledID]
	if c == nil {
		return
	}

	t := w.actors[targetID]
	if targetID != "" && targetID != c.ID && t != nil && t.Alive() && t.Faction == FactionHostile {
		c.TargetID = targetID
		w.emit(protocol.Event{"type": protocol.EventTarget, "id": targetID})
		return
	}
	c.TargetID = ""
	w.emit(protocol.Event{"type": protocol.EventTargetCleared})
}

// switchControl hands the client a different controllable actor. The old
// body stops walking immediately; an active combat session is not ended by
// disengaging.
func (w *World) switchControl(id string) {
	next := w.actors[id]
	if next == nil || next.Faction != FactionControllable || id == w.controlledID {
		return
	}
	if prev := w.actors[w.controlledID]; prev != nil {
		prev.Walking = false
	}
	w.controlledID = id
}

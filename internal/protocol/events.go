package protocol

// Event types carried inside STATE. Every event has "t" (tick) and "type";
// the remaining keys are listed per type.
const (
	// EventShot: one successful attack. Keys: attacker_id, target_id, damage.
	EventShot = "SHOT"
	// EventDefeated: an actor was removed from the world. Keys: id.
	EventDefeated = "DEFEATED"
	// EventCombatStart: a combat session began. Keys: order.
	EventCombatStart = "COMBAT_START"
	// EventCombatEnd: the session's end condition fired. Keys: defeated.
	EventCombatEnd = "COMBAT_END"
	// EventTarget / EventTargetCleared: target-highlight requests for the
	// renderer. Keys for EventTarget: id.
	EventTarget        = "TARGET"
	EventTargetCleared = "TARGET_CLEARED"
)

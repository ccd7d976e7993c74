package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	WorldParams     WorldParams `json:"world_params"`
	ControlledID    string      `json:"controlled_id"`
}

type WorldParams struct {
	TickRateHz   int    `json:"tick_rate_hz"`
	Seed         int64  `json:"seed"`
	LayoutDigest string `json:"layout_digest"`
}

// INTENT (client -> server): everything the presentation layer may feed into
// the simulation for one frame. Move components are normalized client-side;
// the server clamps each component to [-1, 1] but does not re-normalize.
type IntentMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// Move is strafe (x) and forward (z) in the actor's local frame, each in
	// [-1, 1].
	Move [2]float64 `json:"move"`
	Jump bool       `json:"jump,omitempty"`
	Yaw  float64    `json:"yaw"`

	// ControlID switches which controllable actor the client drives.
	ControlID string `json:"control_id,omitempty"`

	// Pick carries the client's ray-test result for target selection. A nil
	// Pick means no pick was made this frame; an empty TargetID clears the
	// current target.
	Pick *PickReq `json:"pick,omitempty"`
}

type PickReq struct {
	TargetID string `json:"target_id"`
}

// STATE (server -> client): the full simulation state after one tick.
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`

	ControlledID string      `json:"controlled_id"`
	Actors       []ActorObs  `json:"actors"`
	Combat       *CombatObs  `json:"combat,omitempty"`
	Events       []Event     `json:"events,omitempty"`
}

type ActorObs struct {
	ID       string     `json:"id"`
	Faction  string     `json:"faction"`
	Pos      [3]float64 `json:"pos"`
	Yaw      float64    `json:"yaw"`
	HP       int        `json:"hp"`
	Grounded bool       `json:"grounded"`
	Walking  bool       `json:"walking"`
	TargetID string     `json:"target_id,omitempty"`
}

type CombatObs struct {
	Order []string `json:"order"`
	Index int      `json:"index"`
	Timer float64  `json:"timer"`
}

// Event is a loose per-tick notification for the presentation layer:
// SHOT, DEFEATED, COMBAT_START, COMBAT_END, TARGET, TARGET_CLEARED.
type Event map[string]any

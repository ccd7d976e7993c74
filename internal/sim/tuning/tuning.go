// Package tuning holds gameplay constants and the server-level tuning file.
//
// Gameplay values are build-time constants on purpose: the combat end
// condition and the follow hysteresis depend on their relative ordering
// (FollowStopDistance < FollowStartDistance, strict-< engagement), so they are
// not runtime-configurable.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// Combat.
	TurnDuration     = 1.0  // seconds per combat turn
	EngagementRadius = 15.0 // strict-<; pairs exactly at the radius do not engage
	DefaultHitDamage = 1    // fallback when no attack is in range

	// Companion follow hysteresis. Stop must stay strictly below start or
	// followers oscillate at the boundary.
	FollowStartDistance = 5.0
	FollowStopDistance  = 4.0
	FollowSpeed         = 5.0

	// Movement.
	MoveSpeed    = 6.0
	JumpStrength = 9.0
	Gravity      = 24.0

	// Actor collision body.
	ActorHalfWidth = 0.4
	ActorHeight    = 1.8

	// ContactEpsilon pads every AABB probe so exact-equality contact does not
	// jitter between grounded and airborne.
	ContactEpsilon = 1e-3

	// WalkEpsilon is the horizontal intent magnitude below which an actor
	// counts as standing still.
	WalkEpsilon = 1e-4
)

// Tuning is the server-level configuration (tuning.yaml). It deliberately
// carries no gameplay values.
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`

	Record RecordSettings `yaml:"record"`
}

type RecordSettings struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t.withDefaults(), nil
}

// Default returns the tuning used when no tuning.yaml is present.
func Default() Tuning {
	return Tuning{}.withDefaults()
}

func (t Tuning) withDefaults() Tuning {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 60
	}
	if t.Record.Dir == "" {
		t.Record.Dir = "./data/records"
	}
	return t
}

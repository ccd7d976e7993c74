// Package layout loads the world definition: static structures (axis-aligned
// boxes) and actor spawns. The renderer builds meshes from the same document;
// the simulation only needs the collision and spawn data.
package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	FactionControllable = "controllable"
	FactionHostile      = "hostile"
)

type Layout struct {
	Name       string         `json:"name"`
	Structures []StructureDef `json:"structures"`
	Actors     []ActorDef     `json:"actors"`

	digest string
}

// StructureDef is one static collision box, defined by center and full size,
// matching how the client-side mesh builder reads the same file.
type StructureDef struct {
	ID     string     `json:"id"`
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

type ActorDef struct {
	ID      string      `json:"id"`
	Faction string      `json:"faction"`
	Pos     [3]float64  `json:"pos"`
	Yaw     float64     `json:"yaw"`
	HP      int         `json:"hp"`
	Weapon  []AttackDef `json:"weapon,omitempty"`
}

type AttackDef struct {
	Damage int     `json:"damage"`
	Range  float64 `json:"range"`
	// Stun and Blast are carried for the client and future combat rules; the
	// current resolver does not read them.
	Stun  int     `json:"stun,omitempty"`
	Blast float64 `json:"blast,omitempty"`
}

const layoutSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "actors"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "structures": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "center", "size"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "center": {"type": "array", "minItems": 3, "maxItems": 3, "items": {"type": "number"}},
          "size": {"type": "array", "minItems": 3, "maxItems": 3, "items": {"type": "number", "exclusiveMinimum": 0}}
        }
      }
    },
    "actors": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "faction", "pos", "hp"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "faction": {"enum": ["controllable", "hostile"]},
          "pos": {"type": "array", "minItems": 3, "maxItems": 3, "items": {"type": "number"}},
          "yaw": {"type": "number"},
          "hp": {"type": "integer", "minimum": 1},
          "weapon": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["damage", "range"],
              "properties": {
                "damage": {"type": "integer", "minimum": 0},
                "range": {"type": "number", "minimum": 0},
                "stun": {"type": "integer", "minimum": 0},
                "blast": {"type": "number", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`

var layoutSchema = jsonschema.MustCompileString("layout.schema.json", layoutSchemaJSON)

func Load(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func Parse(raw []byte) (*Layout, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if err := layoutSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("layout schema: %w", err)
	}

	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	seen := map[string]bool{}
	for _, a := range l.Actors {
		if seen[a.ID] {
			return nil, fmt.Errorf("layout: duplicate actor id %q", a.ID)
		}
		seen[a.ID] = true
	}
	for _, s := range l.Structures {
		if seen[s.ID] {
			return nil, fmt.Errorf("layout: duplicate id %q", s.ID)
		}
		seen[s.ID] = true
	}

	sum := sha256.Sum256(raw)
	l.digest = hex.EncodeToString(sum[:])
	return &l, nil
}

// Digest is the sha256 of the exact document bytes, reported to clients in
// WELCOME so renderer and simulation agree on the world they are looking at.
func (l *Layout) Digest() string { return l.digest }

// ControlledID returns the actor the client drives at startup: the first
// controllable actor in document order.
func (l *Layout) ControlledID() string {
	for _, a := range l.Actors {
		if a.Faction == FactionControllable {
			return a.ID
		}
	}
	return ""
}

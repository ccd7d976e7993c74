package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Client-originated messages are schema-checked before they reach the world
// loop; server-originated messages are checked in tests only.

const helloSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "protocol_version"],
  "properties": {
    "type": {"const": "HELLO"},
    "protocol_version": {"type": "string"},
    "client_name": {"type": "string", "maxLength": 64}
  }
}`

const intentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "protocol_version"],
  "properties": {
    "type": {"const": "INTENT"},
    "protocol_version": {"type": "string"},
    "move": {
      "type": "array",
      "minItems": 2,
      "maxItems": 2,
      "items": {"type": "number", "minimum": -1, "maximum": 1}
    },
    "jump": {"type": "boolean"},
    "yaw": {"type": "number"},
    "control_id": {"type": "string"},
    "pick": {
      "type": "object",
      "required": ["target_id"],
      "properties": {"target_id": {"type": "string"}}
    }
  }
}`

var (
	helloSchema  = jsonschema.MustCompileString("hello.schema.json", helloSchemaJSON)
	intentSchema = jsonschema.MustCompileString("intent.schema.json", intentSchemaJSON)
)

func ValidateHello(raw []byte) error  { return validateRaw(helloSchema, raw) }
func ValidateIntent(raw []byte) error { return validateRaw(intentSchema, raw) }

func validateRaw(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

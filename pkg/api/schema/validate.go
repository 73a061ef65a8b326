// Package schema validates API payloads against JSON Schema documents.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// awayModeSettings is the contract for PUT /awaymode. The two marker
// fields are deliberately absent; the scheduler owns those.
const awayModeSettings = `{
	"type": "object",
	"properties": {
		"enabled": {"type": "boolean"},
		"sunset_window_minutes": {"type": "integer", "minimum": 0, "maximum": 240},
		"off_time_hour": {"type": "integer", "minimum": 0, "maximum": 23},
		"off_time_minute": {"type": "integer", "minimum": 0, "maximum": 59},
		"off_window_minutes": {"type": "integer", "minimum": 0, "maximum": 240}
	},
	"required": ["enabled", "sunset_window_minutes", "off_time_hour", "off_time_minute", "off_window_minutes"],
	"additionalProperties": false
}`

// Validator holds the compiled payload schemas.
type Validator struct {
	awayMode *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	awayMode, err := compile("awaymode.json", awayModeSettings)
	if err != nil {
		return nil, err
	}
	return &Validator{awayMode: awayMode}, nil
}

func compile(name, doc string) (*jsonschema.Schema, error) {
	var schemaMap any
	if err := json.Unmarshal([]byte(doc), &schemaMap); err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, schemaMap); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return compiled, nil
}

// ValidateAwayMode checks a PUT /awaymode payload.
func (v *Validator) ValidateAwayMode(payload map[string]any) error {
	return v.awayMode.Validate(payload)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// runSpecSchema is the structural contract for a run spec document.
// Field-level semantics (parsable durations, limit presence) are
// checked separately by Validate.
const runSpecSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["rate"],
  "additionalProperties": false,
  "properties": {
    "name":       { "type": "string" },
    "rate":       { "type": "number", "exclusiveMinimum": 0 },
    "duration":   { "type": "string" },
    "iterations": { "type": "integer", "minimum": 1 },
    "work":       { "type": "string" },
    "jitter":     { "type": "string" },
    "skip":       { "type": "boolean" },
    "skipWork":   { "type": "string" },
    "seed":       { "type": "integer" }
  }
}`

// Load reads a YAML run spec from path, checks it against the run spec
// schema, and decodes it.
func Load(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec: %w", err)
	}
	return Parse(data)
}

// Parse decodes and schema-checks a YAML run spec document. Schema
// violations (wrong types, unknown fields, non-positive rate) are
// reported before decoding so typos fail loudly instead of silently
// becoming zero values.
func Parse(data []byte) (*RunSpec, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}

	var spec RunSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decoding run spec: %w", err)
	}
	return &spec, nil
}

// checkSchema validates the raw document against runSpecSchema. The
// YAML is decoded generically and round-tripped through JSON so the
// schema validator sees JSON-typed values.
func checkSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing run spec: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalizing run spec: %w", err)
	}
	var jsonDoc interface{}
	if err := json.Unmarshal(raw, &jsonDoc); err != nil {
		return fmt.Errorf("normalizing run spec: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("runspec.json", strings.NewReader(runSpecSchema)); err != nil {
		return fmt.Errorf("invalid run spec schema: %w", err)
	}
	schema, err := compiler.Compile("runspec.json")
	if err != nil {
		return fmt.Errorf("invalid run spec schema: %w", err)
	}

	if err := schema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("run spec failed validation: %w", err)
	}
	return nil
}

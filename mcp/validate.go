package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// schemaSet holds every tool schema in two forms: the marshaled JSON
// advertised on tools/list and the resolved validator run against
// incoming arguments. Both come from the same literal, so the contract
// a client sees is the contract that is enforced.
type schemaSet struct {
	raw      map[string]json.RawMessage
	resolved map[string]*jsonschema.Resolved
}

func newSchemaSet() (*schemaSet, error) {
	set := &schemaSet{
		raw:      make(map[string]json.RawMessage, len(toolSchemas)),
		resolved: make(map[string]*jsonschema.Resolved, len(toolSchemas)),
	}
	for name, schema := range toolSchemas {
		raw, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s schema: %w", name, err)
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolving %s schema: %w", name, err)
		}
		set.raw[name] = raw
		set.resolved[name] = resolved
	}
	return set, nil
}

func (s *schemaSet) rawSchema(tool string) json.RawMessage {
	return s.raw[tool]
}

// decode validates args against the tool's schema and unmarshals them
// onto the params struct. Schema violations come back as validation
// tool errors whose message names the offending location.
func (s *schemaSet) decode(tool string, args map[string]any, into any) error {
	if args == nil {
		args = map[string]any{}
	}
	resolved, ok := s.resolved[tool]
	if !ok {
		return fmt.Errorf("no schema registered for tool %q", tool)
	}
	if err := resolved.Validate(args); err != nil {
		return &ToolError{Code: CodeValidation, Message: err.Error()}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("re-encoding %s arguments: %w", tool, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return &ToolError{
			Code:    CodeValidation,
			Message: fmt.Sprintf("arguments do not fit %s: %v", tool, err),
		}
	}
	return nil
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ToolDefinition describes one catalog operation: its model-facing name and
// description, the input schema advertised to the completion endpoint, the
// compiled JSON Schema used for argument validation, and the handler that
// calls the remote service.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam

	// ParamsSchema is the compiled JSON Schema for the operation's arguments
	// (including required and additionalProperties constraints). Compiled
	// once at catalog construction; nil means the schema failed to build,
	// which Verify treats as a startup error.
	ParamsSchema *jsonschema.Schema

	Function func(ctx context.Context, input json.RawMessage) (string, error)
}

// GenerateSchema derives the Anthropic input schema for T via invopop
// reflection.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	schema := reflect[T]()
	return anthropic.ToolInputSchemaParam{Properties: schema.Properties}
}

// ParamsSchemaJSON returns the full JSON Schema document for T as a string.
func ParamsSchemaJSON[T any]() string {
	b, err := json.Marshal(reflect[T]())
	if err != nil {
		return ""
	}
	return string(b)
}

// ParamsSchema compiles the full JSON Schema for T. Returns nil when the
// schema cannot be built; Verify rejects such a definition at startup.
func ParamsSchema[T any]() *jsonschema.Schema {
	doc := ParamsSchemaJSON[T]()
	if doc == "" {
		return nil
	}
	schema, err := jsonschema.CompileString("", doc)
	if err != nil {
		return nil
	}
	return schema
}

func reflect[T any]() *invopop.Schema {
	reflector := invopop.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// ValidateInput validates raw model-supplied JSON against a compiled schema.
// Model output is an untrusted input boundary; nothing reaches the remote
// service until it passes here.
func ValidateInput(input json.RawMessage, schema *jsonschema.Schema) error {
	if schema == nil {
		return fmt.Errorf("no parameter schema")
	}

	var inputData interface{}
	if len(input) == 0 {
		input = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(input, &inputData); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}

	if err := schema.Validate(inputData); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

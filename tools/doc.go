// Package tools defines the operation catalog for the SkedulesLive assistant.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T]() / ParamsSchema[T](): derive JSON Schema from Go structs.
//   - One definition per SkedulesLive operation (skedules, events, profile,
//     search, analytics), each backed by exactly one client method.
//   - ValidateInput: model-supplied arguments are untrusted and must pass
//     schema validation before any network call.
//   - Catalog/Verify: construction and fail-fast startup integrity check.
package tools

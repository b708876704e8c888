package tools

import (
	"fmt"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

// Catalog returns every operation definition wired to the given client, in
// the order they are advertised to the model.
func Catalog(c *skedules.Client) []ToolDefinition {
	return []ToolDefinition{
		authenticateDefinition(c),
		getSkedulesDefinition(c),
		getSkeduleDefinition(c),
		createSkeduleDefinition(c),
		updateSkeduleDefinition(c),
		deleteSkeduleDefinition(c),
		getEventsDefinition(c),
		getEventDefinition(c),
		createEventDefinition(c),
		updateEventDefinition(c),
		deleteEventDefinition(c),
		getUserProfileDefinition(c),
		searchSkedulesDefinition(c),
		searchEventsDefinition(c),
		getSkeduleAnalyticsDefinition(c),
		getEventAnalyticsDefinition(c),
	}
}

// Verify checks catalog integrity at startup: every entry must have a unique
// name, a bound client-backed handler, and a compiled parameter schema.
// A violation is a configuration error and the process should not serve
// turns with it.
func Verify(defs []ToolDefinition) error {
	if len(defs) == 0 {
		return fmt.Errorf("catalog: no operations defined")
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("catalog: operation with empty name")
		}
		if seen[d.Name] {
			return fmt.Errorf("catalog: duplicate operation %q", d.Name)
		}
		seen[d.Name] = true
		if d.Function == nil {
			return fmt.Errorf("catalog: operation %q has no client method bound", d.Name)
		}
		if d.ParamsSchema == nil {
			return fmt.Errorf("catalog: operation %q has no compiled parameter schema", d.Name)
		}
	}
	return nil
}

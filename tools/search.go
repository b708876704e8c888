package tools

import (
	"context"
	"encoding/json"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

type SearchInput struct {
	Query    string `json:"query" jsonschema_description:"Search query"`
	Page     int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)"`
	PageSize int    `json:"page_size,omitempty" jsonschema_description:"Number of items per page (default 10)"`
}

var SearchInputSchema = GenerateSchema[SearchInput]()
var searchParamsSchema = ParamsSchema[SearchInput]()

func searchSkedulesDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "search_skedules",
		Description:  "Search for skedules by free-text query.",
		InputSchema:  SearchInputSchema,
		ParamsSchema: searchParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in SearchInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.SearchSkedules(ctx, in.Query, in.Page, in.PageSize)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func searchEventsDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "search_events",
		Description:  "Search for events by free-text query.",
		InputSchema:  SearchInputSchema,
		ParamsSchema: searchParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in SearchInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.SearchEvents(ctx, in.Query, in.Page, in.PageSize)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

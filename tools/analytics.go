package tools

import (
	"context"
	"encoding/json"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

type GetSkeduleAnalyticsInput struct {
	SkeduleID string `json:"skedule_id" jsonschema_description:"ID of the skedule to get analytics for"`
	StartDate string `json:"start_date,omitempty" jsonschema_description:"Start of the reporting window (ISO date)"`
	EndDate   string `json:"end_date,omitempty" jsonschema_description:"End of the reporting window (ISO date)"`
}

type GetEventAnalyticsInput struct {
	EventID string `json:"event_id" jsonschema_description:"ID of the event to get analytics for"`
}

var (
	GetSkeduleAnalyticsInputSchema = GenerateSchema[GetSkeduleAnalyticsInput]()
	GetEventAnalyticsInputSchema   = GenerateSchema[GetEventAnalyticsInput]()

	getSkeduleAnalyticsParamsSchema = ParamsSchema[GetSkeduleAnalyticsInput]()
	getEventAnalyticsParamsSchema   = ParamsSchema[GetEventAnalyticsInput]()
)

func getSkeduleAnalyticsDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "get_skedule_analytics",
		Description:  "Get view and engagement analytics for a skedule, optionally bounded by a date range.",
		InputSchema:  GetSkeduleAnalyticsInputSchema,
		ParamsSchema: getSkeduleAnalyticsParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in GetSkeduleAnalyticsInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.GetSkeduleAnalytics(ctx, in.SkeduleID, in.StartDate, in.EndDate)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func getEventAnalyticsDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "get_event_analytics",
		Description:  "Get view and engagement analytics for a single event.",
		InputSchema:  GetEventAnalyticsInputSchema,
		ParamsSchema: getEventAnalyticsParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in GetEventAnalyticsInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.GetEventAnalytics(ctx, in.EventID)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

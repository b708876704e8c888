package tools

import (
	"context"
	"encoding/json"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

type GetEventsInput struct {
	SkeduleID string `json:"skedule_id" jsonschema_description:"ID of the skedule to get events for"`
}

type GetEventInput struct {
	EventID string `json:"event_id" jsonschema_description:"ID of the event to retrieve"`
}

type CreateEventInput struct {
	SkeduleID   string `json:"skedule_id" jsonschema_description:"ID of the skedule to create the event in"`
	Title       string `json:"title" jsonschema_description:"Event title"`
	Description string `json:"description,omitempty" jsonschema_description:"Event description"`
	StartTime   string `json:"start_time" jsonschema_description:"Start time (ISO 8601)"`
	EndTime     string `json:"end_time" jsonschema_description:"End time (ISO 8601)"`
	Location    string `json:"location,omitempty" jsonschema_description:"Event location"`
}

type UpdateEventInput struct {
	EventID     string  `json:"event_id" jsonschema_description:"ID of the event to update"`
	Title       *string `json:"title,omitempty" jsonschema_description:"New event title"`
	Description *string `json:"description,omitempty" jsonschema_description:"New event description"`
	StartTime   *string `json:"start_time,omitempty" jsonschema_description:"New start time (ISO 8601)"`
	EndTime     *string `json:"end_time,omitempty" jsonschema_description:"New end time (ISO 8601)"`
	Location    *string `json:"location,omitempty" jsonschema_description:"New event location"`
}

type DeleteEventInput struct {
	EventID string `json:"event_id" jsonschema_description:"ID of the event to delete"`
}

var (
	GetEventsInputSchema   = GenerateSchema[GetEventsInput]()
	GetEventInputSchema    = GenerateSchema[GetEventInput]()
	CreateEventInputSchema = GenerateSchema[CreateEventInput]()
	UpdateEventInputSchema = GenerateSchema[UpdateEventInput]()
	DeleteEventInputSchema = GenerateSchema[DeleteEventInput]()

	getEventsParamsSchema   = ParamsSchema[GetEventsInput]()
	getEventParamsSchema    = ParamsSchema[GetEventInput]()
	createEventParamsSchema = ParamsSchema[CreateEventInput]()
	updateEventParamsSchema = ParamsSchema[UpdateEventInput]()
	deleteEventParamsSchema = ParamsSchema[DeleteEventInput]()
)

func getEventsDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "get_events",
		Description:  "Get all events for a skedule.",
		InputSchema:  GetEventsInputSchema,
		ParamsSchema: getEventsParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in GetEventsInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.GetEventsForSkedule(ctx, in.SkeduleID)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func getEventDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "get_event",
		Description:  "Get a specific event by ID.",
		InputSchema:  GetEventInputSchema,
		ParamsSchema: getEventParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in GetEventInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.GetEvent(ctx, in.EventID)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func createEventDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "create_event",
		Description:  "Create a new event in a skedule.",
		InputSchema:  CreateEventInputSchema,
		ParamsSchema: createEventParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in CreateEventInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			ev := skedules.Event{
				Title:       in.Title,
				Description: in.Description,
				StartTime:   in.StartTime,
				EndTime:     in.EndTime,
				Location:    in.Location,
			}
			raw, err := c.CreateEvent(ctx, in.SkeduleID, ev)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func updateEventDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "update_event",
		Description:  "Update an existing event. Only the provided fields are changed.",
		InputSchema:  UpdateEventInputSchema,
		ParamsSchema: updateEventParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in UpdateEventInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			fields := map[string]any{}
			setIf(fields, "title", in.Title)
			setIf(fields, "description", in.Description)
			setIf(fields, "startTime", in.StartTime)
			setIf(fields, "endTime", in.EndTime)
			setIf(fields, "location", in.Location)
			raw, err := c.UpdateEvent(ctx, in.EventID, fields)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func deleteEventDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "delete_event",
		Description:  "Delete an event.",
		InputSchema:  DeleteEventInputSchema,
		ParamsSchema: deleteEventParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in DeleteEventInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.DeleteEvent(ctx, in.EventID)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

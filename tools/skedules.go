package tools

import (
	"context"
	"encoding/json"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

type GetSkedulesInput struct {
	Page     int `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)"`
	PageSize int `json:"page_size,omitempty" jsonschema_description:"Number of skedules per page (default 10)"`
}

type GetSkeduleInput struct {
	SkeduleID string `json:"skedule_id" jsonschema_description:"ID of the skedule to retrieve"`
}

type SocialLinkInput struct {
	Network string `json:"network" jsonschema_description:"Social network name"`
	URL     string `json:"url" jsonschema_description:"Link URL"`
}

type CreateSkeduleInput struct {
	Name        string            `json:"name" jsonschema_description:"Skedule name"`
	Description string            `json:"description" jsonschema_description:"Skedule description"`
	Location    string            `json:"location,omitempty" jsonschema_description:"Physical location, if any"`
	IsVirtual   bool              `json:"is_virtual,omitempty" jsonschema_description:"Whether the skedule is virtual"`
	IsPublic    *bool             `json:"is_public,omitempty" jsonschema_description:"Whether the skedule is publicly visible (default true)"`
	Type        string            `json:"type,omitempty" jsonschema_description:"Skedule type (default BUSINESS)"`
	Categories  []string          `json:"categories,omitempty" jsonschema_description:"Category labels"`
	SocialLinks []SocialLinkInput `json:"social_links,omitempty" jsonschema_description:"Social media links"`
}

type UpdateSkeduleInput struct {
	SkeduleID   string  `json:"skedule_id" jsonschema_description:"ID of the skedule to update"`
	Name        *string `json:"name,omitempty" jsonschema_description:"New skedule name"`
	Description *string `json:"description,omitempty" jsonschema_description:"New skedule description"`
	Location    *string `json:"location,omitempty" jsonschema_description:"New location"`
	IsVirtual   *bool   `json:"is_virtual,omitempty" jsonschema_description:"Whether the skedule is virtual"`
	IsPublic    *bool   `json:"is_public,omitempty" jsonschema_description:"Whether the skedule is publicly visible"`
	Type        *string `json:"type,omitempty" jsonschema_description:"Skedule type"`
}

type DeleteSkeduleInput struct {
	SkeduleID string `json:"skedule_id" jsonschema_description:"ID of the skedule to delete"`
}

var (
	GetSkedulesInputSchema   = GenerateSchema[GetSkedulesInput]()
	GetSkeduleInputSchema    = GenerateSchema[GetSkeduleInput]()
	CreateSkeduleInputSchema = GenerateSchema[CreateSkeduleInput]()
	UpdateSkeduleInputSchema = GenerateSchema[UpdateSkeduleInput]()
	DeleteSkeduleInputSchema = GenerateSchema[DeleteSkeduleInput]()

	getSkedulesParamsSchema   = ParamsSchema[GetSkedulesInput]()
	getSkeduleParamsSchema    = ParamsSchema[GetSkeduleInput]()
	createSkeduleParamsSchema = ParamsSchema[CreateSkeduleInput]()
	updateSkeduleParamsSchema = ParamsSchema[UpdateSkeduleInput]()
	deleteSkeduleParamsSchema = ParamsSchema[DeleteSkeduleInput]()
)

func getSkedulesDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "get_skedules",
		Description:  "Get all skedules for the authenticated user, paginated.",
		InputSchema:  GetSkedulesInputSchema,
		ParamsSchema: getSkedulesParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in GetSkedulesInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.GetSkedules(ctx, in.Page, in.PageSize)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func getSkeduleDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "get_skedule",
		Description:  "Get a specific skedule by ID, including its events.",
		InputSchema:  GetSkeduleInputSchema,
		ParamsSchema: getSkeduleParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in GetSkeduleInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.GetSkedule(ctx, in.SkeduleID)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func createSkeduleDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "create_skedule",
		Description:  "Create a new skedule.",
		InputSchema:  CreateSkeduleInputSchema,
		ParamsSchema: createSkeduleParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in CreateSkeduleInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			s := skedules.Skedule{
				Name:        in.Name,
				Description: in.Description,
				Location:    in.Location,
				IsVirtual:   in.IsVirtual,
				IsPublic:    true,
				Type:        in.Type,
				Categories:  in.Categories,
			}
			if in.IsPublic != nil {
				s.IsPublic = *in.IsPublic
			}
			if s.Type == "" {
				s.Type = "BUSINESS"
			}
			for _, l := range in.SocialLinks {
				s.SocialLinks = append(s.SocialLinks, skedules.SocialLink{Network: l.Network, URL: l.URL})
			}
			raw, err := c.CreateSkedule(ctx, s)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func updateSkeduleDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "update_skedule",
		Description:  "Update an existing skedule. Only the provided fields are changed.",
		InputSchema:  UpdateSkeduleInputSchema,
		ParamsSchema: updateSkeduleParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in UpdateSkeduleInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			fields := map[string]any{}
			setIf(fields, "name", in.Name)
			setIf(fields, "description", in.Description)
			setIf(fields, "location", in.Location)
			setIf(fields, "type", in.Type)
			if in.IsVirtual != nil {
				fields["isVirtual"] = *in.IsVirtual
			}
			if in.IsPublic != nil {
				fields["isPublic"] = *in.IsPublic
			}
			raw, err := c.UpdateSkedule(ctx, in.SkeduleID, fields)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

func deleteSkeduleDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "delete_skedule",
		Description:  "Delete a skedule and all of its events.",
		InputSchema:  DeleteSkeduleInputSchema,
		ParamsSchema: deleteSkeduleParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in DeleteSkeduleInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			raw, err := c.DeleteSkedule(ctx, in.SkeduleID)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

// setIf copies a provided optional string field into a camelCase API payload.
func setIf(fields map[string]any, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}

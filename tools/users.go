package tools

import (
	"context"
	"encoding/json"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

type GetUserProfileInput struct{}

var GetUserProfileInputSchema = GenerateSchema[GetUserProfileInput]()
var getUserProfileParamsSchema = ParamsSchema[GetUserProfileInput]()

func getUserProfileDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "get_user_profile",
		Description:  "Get the current user's profile.",
		InputSchema:  GetUserProfileInputSchema,
		ParamsSchema: getUserProfileParamsSchema,
		Function: func(ctx context.Context, _ json.RawMessage) (string, error) {
			raw, err := c.GetUserProfile(ctx)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

package tools

import (
	"context"
	"encoding/json"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

type AuthenticateInput struct {
	Email        string `json:"email" jsonschema_description:"User email"`
	Password     string `json:"password" jsonschema_description:"User password"`
	KeepMeLogged bool   `json:"keep_me_logged,omitempty" jsonschema_description:"Keep the user logged in (default true)"`
}

var AuthenticateInputSchema = GenerateSchema[AuthenticateInput]()
var authenticateParamsSchema = ParamsSchema[AuthenticateInput]()

func authenticateDefinition(c *skedules.Client) ToolDefinition {
	return ToolDefinition{
		Name:         "authenticate",
		Description:  "Authenticate with the SkedulesLive API using the user's email and password. Must succeed before operations that read or change the user's content.",
		InputSchema:  AuthenticateInputSchema,
		ParamsSchema: authenticateParamsSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in AuthenticateInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			if err := c.Authenticate(ctx, in.Email, in.Password, in.KeepMeLogged); err != nil {
				return "", err
			}
			// Tokens stay inside the client; the model only needs the outcome.
			return `{"status":"success","message":"Authentication successful"}`, nil
		},
	}
}

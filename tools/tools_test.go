package tools_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
	"github.com/bjg/skeduleslive-streamlit/tools"
)

type sampleInput struct {
	SkeduleID string `json:"skedule_id" jsonschema_description:"Identifier of the skedule"`
	Page      int    `json:"page,omitempty" jsonschema_description:"Page number"`
}

func TestGenerateSchema_ExposesProperties(t *testing.T) {
	schema := tools.GenerateSchema[sampleInput]()
	if schema.Properties == nil {
		t.Fatal("expected properties to be populated")
	}
	b, err := json.Marshal(schema.Properties)
	if err != nil {
		t.Fatalf("marshal properties: %v", err)
	}
	for _, want := range []string{"skedule_id", "page", "Identifier of the skedule"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("properties missing %q:\n%s", want, b)
		}
	}
}

func TestParamsSchemaJSON_CarriesConstraints(t *testing.T) {
	s := tools.ParamsSchemaJSON[sampleInput]()
	if s == "" {
		t.Fatal("expected a schema document")
	}
	// Fields without omitempty are required; unknown keys are rejected.
	if !strings.Contains(s, `"required"`) || !strings.Contains(s, "skedule_id") {
		t.Errorf("schema missing required constraint:\n%s", s)
	}
	if !strings.Contains(s, `"additionalProperties":false`) {
		t.Errorf("schema missing additionalProperties:false:\n%s", s)
	}
}

func TestParamsSchema_CompilesOnceForValidation(t *testing.T) {
	schema := tools.ParamsSchema[sampleInput]()
	if schema == nil {
		t.Fatal("expected a compiled schema")
	}
	if err := tools.ValidateInput(json.RawMessage(`{"skedule_id":"abc"}`), schema); err != nil {
		t.Fatalf("compiled schema should validate conforming input: %v", err)
	}
}

func TestValidateInput(t *testing.T) {
	schema := tools.ParamsSchema[sampleInput]()

	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", `{"skedule_id":"abc","page":2}`, false},
		{"valid without optional", `{"skedule_id":"abc"}`, false},
		{"missing required", `{"page":1}`, true},
		{"unknown parameter", `{"skedule_id":"abc","bogus":true}`, true},
		{"wrong type", `{"skedule_id":123}`, true},
		{"empty treated as empty object", ``, true}, // skedule_id still required
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tools.ValidateInput(json.RawMessage(tc.input), schema)
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error for %s", tc.input)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error for %s: %v", tc.input, err)
			}
		})
	}
}

func TestValidateInput_EmptyInputAgainstEmptySchema(t *testing.T) {
	schema := tools.ParamsSchema[struct{}]()
	if err := tools.ValidateInput(nil, schema); err != nil {
		t.Fatalf("no-argument operations must accept empty input: %v", err)
	}
}

func TestValidateInput_NilSchemaRejected(t *testing.T) {
	if err := tools.ValidateInput(json.RawMessage(`{}`), nil); err == nil {
		t.Fatal("a definition without a compiled schema must not validate anything")
	}
}

func testClient(t *testing.T) *skedules.Client {
	t.Helper()
	c, err := skedules.New(skedules.Config{
		BaseURL: "http://localhost:8000",
		APIKey:  "test-key",
	})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func TestCatalog_CompleteAndVerified(t *testing.T) {
	defs := tools.Catalog(testClient(t))
	if err := tools.Verify(defs); err != nil {
		t.Fatalf("catalog failed verification: %v", err)
	}

	want := []string{
		"authenticate",
		"get_skedules",
		"get_skedule",
		"create_skedule",
		"update_skedule",
		"delete_skedule",
		"get_events",
		"get_event",
		"create_event",
		"update_event",
		"delete_event",
		"get_user_profile",
		"search_skedules",
		"search_events",
		"get_skedule_analytics",
		"get_event_analytics",
	}
	if len(defs) != len(want) {
		t.Fatalf("catalog size: want %d, got %d", len(want), len(defs))
	}
	for i, d := range defs {
		if d.Name != want[i] {
			t.Errorf("catalog[%d]: want %q, got %q", i, want[i], d.Name)
		}
		if d.Description == "" {
			t.Errorf("operation %q has no description", d.Name)
		}
	}
}

func TestVerify_RejectsBrokenEntries(t *testing.T) {
	base := tools.Catalog(testClient(t))

	t.Run("empty catalog", func(t *testing.T) {
		if err := tools.Verify(nil); err == nil {
			t.Fatal("expected error for empty catalog")
		}
	})
	t.Run("duplicate name", func(t *testing.T) {
		defs := append([]tools.ToolDefinition{}, base...)
		defs = append(defs, defs[0])
		if err := tools.Verify(defs); err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Fatalf("expected duplicate error, got %v", err)
		}
	})
	t.Run("nil handler", func(t *testing.T) {
		defs := append([]tools.ToolDefinition{}, base...)
		defs[3].Function = nil
		if err := tools.Verify(defs); err == nil {
			t.Fatal("expected error for nil handler")
		}
	})
	t.Run("missing schema", func(t *testing.T) {
		defs := append([]tools.ToolDefinition{}, base...)
		defs[5].ParamsSchema = nil
		if err := tools.Verify(defs); err == nil {
			t.Fatal("expected error for missing schema")
		}
	})
}

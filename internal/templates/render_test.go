package templates

import (
	"errors"
	"testing"

	"contexthub/internal/models"
)

func strptr(s string) *string { return &s }

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"none", "plain text without placeholders", []string{}},
		{"single", "Hello {{name}}", []string{"name"}},
		{"first seen order", "{{b}} then {{a}} then {{b}}", []string{"b", "a"}},
		{"underscore start", "{{_ctx}} and {{x_1}}", []string{"_ctx", "x_1"}},
		{"digit start ignored", "{{1bad}} {{good}}", []string{"good"}},
		{"unclosed ignored", "{{open and {{ok}}", []string{"ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariables(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d variables %v, want %d", len(got), got, len(tt.want))
			}
			for i, v := range got {
				if v.Name != tt.want[i] {
					t.Errorf("variable %d = %q, want %q", i, v.Name, tt.want[i])
				}
				if v.Required {
					t.Errorf("extracted variable %q marked required", v.Name)
				}
				if v.DefaultValue != nil {
					t.Errorf("extracted variable %q has a default", v.Name)
				}
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	out, err := Render("Hello {{name}}", []models.PromptVariable{{Name: "name"}}, map[string]string{"name": "World"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello World" {
		t.Errorf("rendered %q, want %q", out, "Hello World")
	}
}

func TestRenderMissingRequired(t *testing.T) {
	declared := []models.PromptVariable{{Name: "name", Required: true}}
	_, err := Render("Hello {{name}}", declared, nil)

	var missing *MissingVariableError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingVariableError, got %v", err)
	}
	if missing.Name != "name" {
		t.Errorf("error names %q, want %q", missing.Name, "name")
	}
}

func TestRenderDefaultFillsAbsent(t *testing.T) {
	declared := []models.PromptVariable{{Name: "name", Required: true, DefaultValue: strptr("World")}}
	out, err := Render("Hello {{name}}", declared, map[string]string{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello World" {
		t.Errorf("rendered %q, want default applied", out)
	}
}

func TestRenderSuppliedBeatsDefault(t *testing.T) {
	declared := []models.PromptVariable{{Name: "name", DefaultValue: strptr("World")}}
	out, err := Render("Hello {{name}}", declared, map[string]string{"name": "Gopher"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello Gopher" {
		t.Errorf("rendered %q, supplied value should win over default", out)
	}
}

func TestRenderEmptyDefaultIsAValue(t *testing.T) {
	declared := []models.PromptVariable{{Name: "opt", Required: true, DefaultValue: strptr("")}}
	out, err := Render("[{{opt}}]", declared, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "[]" {
		t.Errorf("rendered %q, want empty default substituted", out)
	}
}

func TestRenderLeavesUndeclaredPlaceholders(t *testing.T) {
	out, err := Render("{{known}} {{unknown}}", nil, map[string]string{"known": "yes"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "yes {{unknown}}" {
		t.Errorf("rendered %q, want unknown placeholder left intact", out)
	}
}

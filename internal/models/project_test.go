package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		ok   bool
	}{
		{"my-project", true},
		{"project123", true},
		{"a", true},
		{"node-express-mongodb", true},
		{"", false},
		{"My-Project", false},
		{"my project", false},
		{"my_project", false},
		{"slug!", false},
	}

	for _, tt := range tests {
		if got := ValidSlug.MatchString(tt.slug); got != tt.ok {
			t.Errorf("ValidSlug.MatchString(%q) = %v, want %v", tt.slug, got, tt.ok)
		}
	}
}

// Template projects carry no todo rollup and no document presence map;
// their list entries must not serialize either field.
func TestProjectWithCountsTemplateShape(t *testing.T) {
	pc := ProjectWithCounts{
		Project:       Project{Slug: "go-fiber-mongodb", Name: "Go + Fiber", IsTemplate: true},
		DocumentCount: 2,
	}

	raw, err := json.Marshal(pc)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "todoStats") || strings.Contains(string(raw), `"documents"`) {
		t.Errorf("template project serialized rollup fields: %s", raw)
	}

	pc.TodoStats = &TodoRollup{Total: 3, Pending: 2, InProgress: 1, CompletionRate: "0%"}
	raw, err = json.Marshal(pc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "todoStats") {
		t.Errorf("populated rollup dropped from output: %s", raw)
	}
}

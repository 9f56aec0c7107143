package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contexthub/internal/models"
)

func TestLoadCatalogEmbedded(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog embedded: %v", err)
	}
	if len(catalog.Techstacks) == 0 {
		t.Fatal("embedded catalog has no techstacks")
	}
	if len(catalog.Skills) == 0 {
		t.Fatal("embedded catalog has no skills")
	}

	seen := map[string]bool{}
	for _, ts := range catalog.Techstacks {
		if !models.ValidSlug.MatchString(ts.Slug) {
			t.Errorf("techstack slug %q is not a valid slug", ts.Slug)
		}
		if seen[ts.Slug] {
			t.Errorf("duplicate techstack slug %q", ts.Slug)
		}
		seen[ts.Slug] = true
		if ts.Techstack == "" {
			t.Errorf("techstack %q has no TECHSTACK content", ts.Slug)
		}
	}

	for _, sk := range catalog.Skills {
		if _, err := models.ParseSkillType(string(sk.Type)); err != nil {
			t.Errorf("skill %q: %v", sk.Name, err)
		}
		if sk.ProjectSlug != "all" && !seen[sk.ProjectSlug] {
			t.Errorf("skill %q targets unknown techstack %q", sk.Name, sk.ProjectSlug)
		}
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `techstacks:
  - slug: test-stack
    name: Test Stack
    description: A stack
    tags: [test]
    techstack: "# Test"
skills:
  - projectSlug: all
    name: test-skill
    type: instructions
    description: A skill
    content: "# Skill"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(catalog.Techstacks) != 1 || catalog.Techstacks[0].Slug != "test-stack" {
		t.Errorf("unexpected techstacks: %+v", catalog.Techstacks)
	}
	if len(catalog.Skills) != 1 || catalog.Skills[0].Type != models.SkillInstructions {
		t.Errorf("unexpected skills: %+v", catalog.Skills)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing techstack content",
			content: "techstacks:\n  - slug: x\n    name: X\n",
			wantErr: "techstack",
		},
		{
			name:    "bad skill type",
			content: "skills:\n  - projectSlug: all\n    name: s\n    type: wizardry\n",
			wantErr: "invalid skill type",
		},
		{
			name:    "not yaml",
			content: "{{{",
			wantErr: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadCatalog(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

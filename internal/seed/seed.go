// Package seed loads the techstack/skill template catalog into MongoDB.
// The default catalog is embedded; a YAML file can override it.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Techstack is one seedable template project with its documents.
type Techstack struct {
	Slug             string   `yaml:"slug"`
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Tags             []string `yaml:"tags"`
	Techstack        string   `yaml:"techstack"`
	CodingGuidelines string   `yaml:"codingGuidelines"`
}

// Skill is one seedable skill. ProjectSlug "all" attaches it to every
// techstack in the catalog.
type Skill struct {
	ProjectSlug string           `yaml:"projectSlug"`
	Name        string           `yaml:"name"`
	Type        models.SkillType `yaml:"type"`
	Description string           `yaml:"description"`
	Content     string           `yaml:"content"`
	Tags        []string         `yaml:"tags"`
}

// Catalog is the full seed payload.
type Catalog struct {
	Techstacks []Techstack `yaml:"techstacks"`
	Skills     []Skill     `yaml:"skills"`
}

// LoadCatalog parses the catalog at path, or the embedded default when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for _, t := range catalog.Techstacks {
		if t.Slug == "" || t.Name == "" || t.Techstack == "" {
			return nil, fmt.Errorf("techstack %q: slug, name and techstack are required", t.Slug)
		}
	}
	for _, s := range catalog.Skills {
		if s.ProjectSlug == "" || s.Name == "" {
			return nil, fmt.Errorf("skill %q: projectSlug and name are required", s.Name)
		}
		if _, err := models.ParseSkillType(string(s.Type)); err != nil {
			return nil, fmt.Errorf("skill %q: %w", s.Name, err)
		}
	}
	return &catalog, nil
}

// Result summarizes one seeding run.
type Result struct {
	ProjectsCreated int
	ProjectsSkipped int
	SkillsCreated   int
}

// Seeder writes the catalog through the regular stores so seeded data
// gets the same validation and shape as API-created data.
type Seeder struct {
	projects  *store.ProjectStore
	documents *store.DocumentStore
	skills    *store.SkillStore
}

// NewSeeder creates a Seeder.
func NewSeeder(projects *store.ProjectStore, documents *store.DocumentStore, skills *store.SkillStore) *Seeder {
	return &Seeder{projects: projects, documents: documents, skills: skills}
}

// Run seeds the catalog. It is idempotent: existing project slugs and
// skill names are skipped, and previously seeded projects are flagged
// as templates if they are not already.
func (s *Seeder) Run(ctx context.Context, catalog *Catalog) (*Result, error) {
	slugs := make([]string, 0, len(catalog.Techstacks))
	for _, t := range catalog.Techstacks {
		slugs = append(slugs, t.Slug)
	}
	migrated, err := s.projects.MarkTemplates(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if migrated > 0 {
		log.Printf("  Marked %d existing seeded projects as templates", migrated)
	}

	result := &Result{}
	for _, t := range catalog.Techstacks {
		created, err := s.seedTechstack(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("seeding %s: %w", t.Slug, err)
		}
		if created {
			result.ProjectsCreated++
		} else {
			result.ProjectsSkipped++
		}
	}

	for _, sk := range catalog.Skills {
		targets := []string{sk.ProjectSlug}
		if sk.ProjectSlug == "all" {
			targets = slugs
		}
		for _, slug := range targets {
			created, err := s.seedSkill(ctx, slug, sk)
			if err != nil {
				return nil, fmt.Errorf("seeding skill %s on %s: %w", sk.Name, slug, err)
			}
			if created {
				result.SkillsCreated++
			}
		}
	}
	return result, nil
}

func (s *Seeder) seedTechstack(ctx context.Context, t Techstack) (bool, error) {
	exists, err := s.projects.Exists(ctx, t.Slug)
	if err != nil {
		return false, err
	}
	if exists {
		log.Printf("  Project %s already exists, skipping", t.Slug)
		return false, nil
	}

	if _, err := s.projects.Create(ctx, models.CreateProjectInput{
		Slug:        t.Slug,
		Name:        t.Name,
		Description: t.Description,
		Tags:        t.Tags,
		IsTemplate:  true,
	}); err != nil {
		return false, err
	}

	_, err = s.documents.Create(ctx, t.Slug, models.CreateDocumentInput{
		Type:    models.DocTechstack,
		Title:   "TECHSTACK",
		Content: t.Techstack,
		Tags:    t.Tags,
	})
	if err != nil {
		return false, err
	}

	if t.CodingGuidelines != "" {
		_, err = s.documents.Create(ctx, t.Slug, models.CreateDocumentInput{
			Type:    models.DocCodingGuidelines,
			Title:   "CODING_GUIDELINES",
			Content: t.CodingGuidelines,
			Tags:    t.Tags,
		})
		if err != nil {
			return false, err
		}
	}

	log.Printf("  ✓ Created %s", t.Slug)
	return true, nil
}

func (s *Seeder) seedSkill(ctx context.Context, projectSlug string, sk Skill) (bool, error) {
	_, err := s.skills.GetByName(ctx, projectSlug, sk.Name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	_, err = s.skills.Create(ctx, projectSlug, models.CreateSkillInput{
		Name:        sk.Name,
		Type:        sk.Type,
		Description: sk.Description,
		Content:     sk.Content,
		Tags:        sk.Tags,
	})
	if err != nil {
		// Catalog skills may target a project that was never seeded.
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("  ⚠️  Skill %s targets unknown project %s, skipping", sk.Name, projectSlug)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

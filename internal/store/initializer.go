package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"contexthub/internal/logging"
	"contexthub/internal/models"
)

// Initializer bootstraps projects, either by copying from a template
// project in the catalog or by importing documentation files from an
// existing source tree.
type Initializer struct {
	projects  *ProjectStore
	documents *DocumentStore
	skills    *SkillStore
}

// NewInitializer creates a project initializer
func NewInitializer(projects *ProjectStore, documents *DocumentStore, skills *SkillStore) *Initializer {
	return &Initializer{projects: projects, documents: documents, skills: skills}
}

// InitFromTechstackInput describes a copy-from-template initialization.
// CopyDocuments defaults to just TECHSTACK.
type InitFromTechstackInput struct {
	SourceSlug    string
	NewSlug       string
	NewName       string
	Description   string
	Tags          []string
	CopyDocuments []models.DocumentType
	CopySkills    bool
	Username      string
}

// InitResult reports what an initialization created.
type InitResult struct {
	Project         models.Project        `json:"project"`
	SourceSlug      string                `json:"sourceSlug,omitempty"`
	CopiedDocuments []string              `json:"copiedDocuments"`
	CopiedSkills    []string              `json:"copiedSkills,omitempty"`
	MissingTypes    []models.DocumentType `json:"missingTypes,omitempty"`
}

// InitFromTechstack creates a user project seeded from a template
// project: the selected document types are copied over, and optionally
// every skill. Absence of the source is ErrNotFound; an occupied new slug
// is ErrConflict.
func (in *Initializer) InitFromTechstack(ctx context.Context, input InitFromTechstackInput) (*InitResult, error) {
	source, err := in.projects.GetBySlug(ctx, input.SourceSlug)
	if err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Initialized from %s", source.Name)
	}
	tags := input.Tags
	if len(tags) == 0 {
		tags = source.Tags
	}

	project, err := in.projects.Create(ctx, models.CreateProjectInput{
		Slug:        input.NewSlug,
		Name:        input.NewName,
		Description: description,
		Tags:        tags,
		IsTemplate:  false,
		Username:    input.Username,
	})
	if err != nil {
		return nil, err
	}

	result := &InitResult{
		Project:         *project,
		SourceSlug:      source.Slug,
		CopiedDocuments: []string{},
	}

	docTypes := input.CopyDocuments
	if len(docTypes) == 0 {
		docTypes = []models.DocumentType{models.DocTechstack}
	}
	for _, typ := range docTypes {
		sourceDoc, err := in.documents.GetByType(ctx, source.Slug, typ)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				result.MissingTypes = append(result.MissingTypes, typ)
				continue
			}
			return nil, err
		}
		_, err = in.documents.Create(ctx, project.Slug, models.CreateDocumentInput{
			Type:     typ,
			Title:    sourceDoc.Title,
			Content:  sourceDoc.Content,
			Tags:     sourceDoc.Tags,
			Username: input.Username,
		})
		if err != nil {
			return nil, err
		}
		result.CopiedDocuments = append(result.CopiedDocuments, string(typ))
	}

	if input.CopySkills {
		result.CopiedSkills = []string{}
		sourceSkills, err := in.skills.List(ctx, source.Slug, models.ListSkillsOptions{})
		if err != nil {
			return nil, err
		}
		for _, skill := range sourceSkills {
			isActive := skill.IsActive
			_, err := in.skills.Create(ctx, project.Slug, models.CreateSkillInput{
				Name:        skill.Name,
				Type:        skill.Type,
				Description: skill.Description,
				Content:     skill.Content,
				Tags:        skill.Tags,
				IsActive:    &isActive,
			})
			if err != nil {
				return nil, err
			}
			result.CopiedSkills = append(result.CopiedSkills, skill.Name)
		}
	}

	logging.WithProject(project.Slug).Info("project initialized from techstack",
		"source", source.Slug,
		"documents", len(result.CopiedDocuments),
		"skills", len(result.CopiedSkills))
	return result, nil
}

// CustomDoc maps a file in the source tree to a document type.
type CustomDoc struct {
	Type models.DocumentType
	Path string
}

// InitExistingInput describes an import of an existing source tree.
type InitExistingInput struct {
	Slug        string
	Name        string
	Description string
	Path        string
	Tags        []string
	ScanForDocs bool
	CustomDocs  []CustomDoc
	Username    string
}

// docFileCandidates lists, per document type, the conventional file names
// scanned for in an existing project tree, in preference order.
var docFileCandidates = map[models.DocumentType][]string{
	models.DocPlan:      {"PLAN.md", "plan.md", "ROADMAP.md", "roadmap.md"},
	models.DocTodo:      {"TODO.md", "todo.md", "TASKS.md", "tasks.md"},
	models.DocScope:     {"SCOPE.md", "scope.md", "REQUIREMENTS.md", "requirements.md", "PRD.md"},
	models.DocTechstack: {"TECHSTACK.md", "techstack.md", "TECH.md", "STACK.md", "ARCHITECTURE.md"},
	models.DocCodingGuidelines: {
		"CODING_GUIDELINES.md", "CONTRIBUTING.md", "CODE_STYLE.md",
		"STYLE_GUIDE.md", filepath.Join(".github", "CONTRIBUTING.md"),
	},
	models.DocUIUXStandards: {"UI_UX_STANDARDS.md", "DESIGN.md", "STYLE.md", "UI.md"},
}

// InitExisting registers an existing source tree as a project. Custom
// file mappings are imported first, then (when ScanForDocs is set) the
// conventional documentation files; a TECHSTACK document is auto-generated
// from package.json when none was found.
func (in *Initializer) InitExisting(ctx context.Context, input InitExistingInput) (*InitResult, error) {
	if _, err := os.Stat(input.Path); err != nil {
		return nil, fmt.Errorf("project path %q does not exist", input.Path)
	}

	project, err := in.projects.Create(ctx, models.CreateProjectInput{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		Tags:        input.Tags,
		IsTemplate:  false,
		Username:    input.Username,
	})
	if err != nil {
		return nil, err
	}

	result := &InitResult{Project: *project, CopiedDocuments: []string{}}
	imported := map[models.DocumentType]bool{}

	importDoc := func(typ models.DocumentType, content string) error {
		_, err := in.documents.Create(ctx, project.Slug, models.CreateDocumentInput{
			Type:     typ,
			Title:    string(typ),
			Content:  content,
			Username: input.Username,
		})
		if err != nil {
			return err
		}
		imported[typ] = true
		result.CopiedDocuments = append(result.CopiedDocuments, string(typ))
		return nil
	}

	for _, custom := range input.CustomDocs {
		content, err := os.ReadFile(filepath.Join(input.Path, custom.Path))
		if err != nil {
			continue
		}
		if err := importDoc(custom.Type, string(content)); err != nil {
			return nil, err
		}
	}

	if input.ScanForDocs {
		for _, typ := range models.DocumentTypes {
			if imported[typ] {
				continue
			}
			for _, name := range docFileCandidates[typ] {
				content, err := os.ReadFile(filepath.Join(input.Path, name))
				if err != nil {
					continue
				}
				if err := importDoc(typ, string(content)); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	if !imported[models.DocTechstack] {
		if content := techstackFromPackageJSON(filepath.Join(input.Path, "package.json")); content != "" {
			if err := importDoc(models.DocTechstack, content); err != nil {
				return nil, err
			}
		}
	}

	for _, typ := range models.DocumentTypes {
		if !imported[typ] {
			result.MissingTypes = append(result.MissingTypes, typ)
		}
	}
	return result, nil
}

// techstackFromPackageJSON renders a minimal TECHSTACK document from a
// package.json manifest, or "" when the file is absent or malformed.
func techstackFromPackageJSON(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var pkg struct {
		Name            string            `json:"name"`
		Description     string            `json:"description"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Tech Stack\n\nAuto-generated from package.json\n\n")
	if pkg.Name != "" {
		fmt.Fprintf(&b, "## Project: %s\n\n", pkg.Name)
	}
	if pkg.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", pkg.Description)
	}
	b.WriteString("## Dependencies\n\n")
	for _, name := range sortedKeys(pkg.Dependencies) {
		fmt.Fprintf(&b, "- %s: %s\n", name, pkg.Dependencies[name])
	}
	if len(pkg.DevDependencies) > 0 {
		b.WriteString("\n## Dev Dependencies\n\n")
		for _, name := range sortedKeys(pkg.DevDependencies) {
			fmt.Fprintf(&b, "- %s: %s\n", name, pkg.DevDependencies[name])
		}
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package mcptools

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// BrowseCatalogTool handles the browse_catalog MCP tool: lists template
// projects grouped into categories.
type BrowseCatalogTool struct {
	catalog *store.CatalogService
}

// NewBrowseCatalogTool creates a BrowseCatalogTool.
func NewBrowseCatalogTool(catalog *store.CatalogService) *BrowseCatalogTool {
	return &BrowseCatalogTool{catalog: catalog}
}

// Definition returns the MCP tool definition for browse_catalog.
func (t *BrowseCatalogTool) Definition() mcp.Tool {
	return mcp.NewTool("browse_catalog",
		mcp.WithDescription(
			"Browse the catalog of template projects (techstacks). Filter by "+
				"category or a free-text search over name, description and tags.",
		),
		mcp.WithString("category", mcp.Description("Category such as frontend, backend or fullstack")),
		mcp.WithString("search", mcp.Description("Free-text filter")),
	)
}

// Handle processes the browse_catalog tool call.
func (t *BrowseCatalogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.catalog.Browse(ctx, req.GetString("category", ""), req.GetString("search", ""))
	if err != nil {
		return errResult(err, "browsing catalog"), nil
	}
	return jsonResult(result)
}

// BrowseAllSkillsTool handles the browse_all_skills MCP tool: lists the
// skills published across all template projects, deduplicated by name.
type BrowseAllSkillsTool struct {
	catalog *store.CatalogService
}

// NewBrowseAllSkillsTool creates a BrowseAllSkillsTool.
func NewBrowseAllSkillsTool(catalog *store.CatalogService) *BrowseAllSkillsTool {
	return &BrowseAllSkillsTool{catalog: catalog}
}

// Definition returns the MCP tool definition for browse_all_skills.
func (t *BrowseAllSkillsTool) Definition() mcp.Tool {
	return mcp.NewTool("browse_all_skills",
		mcp.WithDescription(
			"Browse every skill available across the template catalog, "+
				"deduplicated by name. Filter by category, type or search text.",
		),
		mcp.WithString("category", mcp.Description("Skill category such as testing or deployment")),
		mcp.WithString("type", mcp.Description("Skill type: instructions, code_template or tool_definition")),
		mcp.WithString("search", mcp.Description("Free-text filter")),
	)
}

// Handle processes the browse_all_skills tool call.
func (t *BrowseAllSkillsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var typ models.SkillType
	if raw := req.GetString("type", ""); raw != "" {
		parsed, err := models.ParseSkillType(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown skill type '%s'", raw)), nil
		}
		typ = parsed
	}

	result, err := t.catalog.BrowseSkills(ctx, req.GetString("category", ""), typ, req.GetString("search", ""))
	if err != nil {
		return errResult(err, "browsing skills"), nil
	}
	return jsonResult(result)
}

// BrowseTechstacksTool handles the browse_techstacks MCP tool: lists
// every project carrying a TECHSTACK document, useful before
// bootstrapping a similar project.
type BrowseTechstacksTool struct {
	projects  *store.ProjectStore
	documents *store.DocumentStore
}

// NewBrowseTechstacksTool creates a BrowseTechstacksTool.
func NewBrowseTechstacksTool(projects *store.ProjectStore, documents *store.DocumentStore) *BrowseTechstacksTool {
	return &BrowseTechstacksTool{projects: projects, documents: documents}
}

// Definition returns the MCP tool definition for browse_techstacks.
func (t *BrowseTechstacksTool) Definition() mcp.Tool {
	return mcp.NewTool("browse_techstacks",
		mcp.WithDescription(
			"Browse the techstack definitions of existing projects. Returns a "+
				"preview of each TECHSTACK document unless detailed is set.",
		),
		mcp.WithString("tags", mcp.Description("Comma-separated tags to filter projects by")),
		mcp.WithBoolean("detailed", mcp.Description("Include the full techstack content, default false")),
	)
}

type techstackEntry struct {
	ProjectSlug        string            `json:"projectSlug"`
	ProjectName        string            `json:"projectName"`
	ProjectDescription string            `json:"projectDescription"`
	ProjectTags        []string          `json:"projectTags"`
	Techstack          techstackDocument `json:"techstack"`
}

type techstackDocument struct {
	Content   string    `json:"content,omitempty"`
	Preview   string    `json:"preview,omitempty"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Handle processes the browse_techstacks tool call.
func (t *BrowseTechstacksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.projects.List(ctx, models.ListProjectsOptions{
		Tags: splitTags(req.GetString("tags", "")),
	})
	if err != nil {
		return errResult(err, "listing projects"), nil
	}
	detailed := boolArg(req, "detailed", false)

	techstacks := []techstackEntry{}
	for _, project := range projects {
		doc, err := t.documents.GetByType(ctx, project.Slug, models.DocTechstack)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return errResult(err, "reading techstack"), nil
		}

		entry := techstackEntry{
			ProjectSlug:        project.Slug,
			ProjectName:        project.Name,
			ProjectDescription: project.Description,
			ProjectTags:        project.Tags,
			Techstack: techstackDocument{
				Version:   doc.CurrentVersion,
				UpdatedAt: doc.UpdatedAt,
			},
		}
		if detailed {
			entry.Techstack.Content = doc.Content
		} else {
			entry.Techstack.Preview = contentPreview(doc.Content, 500)
		}
		techstacks = append(techstacks, entry)
	}

	message := "No projects with techstack definitions found"
	if len(techstacks) > 0 {
		message = fmt.Sprintf("Found %d project(s) with techstack definitions", len(techstacks))
	}
	return jsonResult(map[string]any{
		"techstacks": techstacks,
		"count":      len(techstacks),
		"message":    message,
	})
}

// contentPreview truncates content to max bytes on a rune boundary,
// appending an ellipsis when something was cut.
func contentPreview(content string, max int) string {
	if len(content) <= max {
		return content
	}
	for max > 0 && !utf8.RuneStart(content[max]) {
		max--
	}
	return content[:max] + "..."
}

// InitProjectFromTechstackTool handles the init_project_from_techstack
// MCP tool: bootstraps a new project from a catalog template.
type InitProjectFromTechstackTool struct {
	init *store.Initializer
}

// NewInitProjectFromTechstackTool creates an InitProjectFromTechstackTool.
func NewInitProjectFromTechstackTool(init *store.Initializer) *InitProjectFromTechstackTool {
	return &InitProjectFromTechstackTool{init: init}
}

// Definition returns the MCP tool definition for init_project_from_techstack.
func (t *InitProjectFromTechstackTool) Definition() mcp.Tool {
	return mcp.NewTool("init_project_from_techstack",
		mcp.WithDescription(
			"Create a new project from a techstack template, copying its "+
				"TECHSTACK document (and optionally other documents and skills).",
		),
		mcp.WithString("sourceSlug", mcp.Required(), mcp.Description("Slug of the template project")),
		mcp.WithString("newSlug", mcp.Required(), mcp.Description("Slug for the new project")),
		mcp.WithString("newName", mcp.Required(), mcp.Description("Display name for the new project")),
		mcp.WithString("description", mcp.Description("Description for the new project")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; defaults to the template's tags")),
		mcp.WithString("copyDocuments", mcp.Description("Comma-separated document types to copy; defaults to TECHSTACK")),
		mcp.WithBoolean("copySkills", mcp.Description("Copy the template's skills too")),
		mcp.WithString("username", mcp.Description("Author recorded on the new project")),
	)
}

// Handle processes the init_project_from_techstack tool call.
func (t *InitProjectFromTechstackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceSlug := req.GetString("sourceSlug", "")
	newSlug := req.GetString("newSlug", "")
	newName := req.GetString("newName", "")
	if sourceSlug == "" || newSlug == "" || newName == "" {
		return mcp.NewToolResultError("'sourceSlug', 'newSlug' and 'newName' are required"), nil
	}

	var copyDocs []models.DocumentType
	for _, raw := range splitTags(req.GetString("copyDocuments", "")) {
		dt, err := models.ParseDocumentType(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown document type '%s'", raw)), nil
		}
		copyDocs = append(copyDocs, dt)
	}

	result, err := t.init.InitFromTechstack(ctx, store.InitFromTechstackInput{
		SourceSlug:    sourceSlug,
		NewSlug:       newSlug,
		NewName:       newName,
		Description:   req.GetString("description", ""),
		Tags:          splitTags(req.GetString("tags", "")),
		CopyDocuments: copyDocs,
		CopySkills:    boolArg(req, "copySkills", false),
		Username:      req.GetString("username", ""),
	})
	if err != nil {
		return errResult(err, "initializing project"), nil
	}
	return jsonResult(result)
}

// InitExistingProjectTool handles the init_existing_project MCP tool:
// registers an existing codebase as a project, importing its docs.
type InitExistingProjectTool struct {
	init *store.Initializer
}

// NewInitExistingProjectTool creates an InitExistingProjectTool.
func NewInitExistingProjectTool(init *store.Initializer) *InitExistingProjectTool {
	return &InitExistingProjectTool{init: init}
}

// Definition returns the MCP tool definition for init_existing_project.
func (t *InitExistingProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("init_existing_project",
		mcp.WithDescription(
			"Register an existing codebase as a project. Scans the directory "+
				"for well-known docs (PLAN.md, TODO.md, ...) and imports them; "+
				"falls back to generating a TECHSTACK from package.json.",
		),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug for the new project")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name for the new project")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the project directory")),
		mcp.WithString("description", mcp.Description("Description for the new project")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithBoolean("scanForDocs", mcp.Description("Scan the directory for importable docs, default true")),
		mcp.WithString("username", mcp.Description("Author recorded on the new project")),
	)
}

// Handle processes the init_existing_project tool call.
func (t *InitExistingProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("slug", "")
	name := req.GetString("name", "")
	path := req.GetString("path", "")
	if slug == "" || name == "" || path == "" {
		return mcp.NewToolResultError("'slug', 'name' and 'path' are required"), nil
	}

	result, err := t.init.InitExisting(ctx, store.InitExistingInput{
		Slug:        slug,
		Name:        name,
		Description: req.GetString("description", ""),
		Path:        path,
		Tags:        splitTags(req.GetString("tags", "")),
		ScanForDocs: boolArg(req, "scanForDocs", true),
		Username:    req.GetString("username", ""),
	})
	if err != nil {
		return errResult(err, "initializing project"), nil
	}
	return jsonResult(result)
}

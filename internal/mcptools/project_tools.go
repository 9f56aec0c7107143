package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	stats *store.StatsService
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(stats *store.StatsService) *ListProjectsTool {
	return &ListProjectsTool{stats: stats}
}

// Definition returns the MCP tool definition for list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription(
			"List all projects with their content counts. Use this to discover which "+
				"projects exist before reading or writing documents, skills, snippets, or todos.",
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags; projects matching any are returned"),
		),
		mcp.WithBoolean("templatesOnly",
			mcp.Description("Only return template projects from the catalog"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max projects to return (default: 50)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Pagination offset (default: 0)"),
		),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := models.ListProjectsOptions{
		Tags:   splitTags(req.GetString("tags", "")),
		Limit:  int64(intArg(req, "limit", 50)),
		Offset: int64(intArg(req, "offset", 0)),
	}
	if boolArg(req, "templatesOnly", false) {
		isTemplate := true
		opts.IsTemplate = &isTemplate
	}

	projects, total, err := t.stats.ListWithCounts(ctx, opts)
	if err != nil {
		return errResult(err, "listing projects"), nil
	}

	return jsonResult(map[string]any{
		"projects": projects,
		"total":    total,
	})
}

// GetProjectContextTool handles the get_project_context MCP tool.
type GetProjectContextTool struct {
	stats *store.StatsService
}

// NewGetProjectContextTool creates a GetProjectContextTool.
func NewGetProjectContextTool(stats *store.StatsService) *GetProjectContextTool {
	return &GetProjectContextTool{stats: stats}
}

// Definition returns the MCP tool definition for get_project_context.
func (t *GetProjectContextTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_context",
		mcp.WithDescription(
			"Get the full context of a project in one call: the project record, its "+
				"documents, active skills, open todos, and the todo completion rate. "+
				"Use this first when starting to work on a project.",
		),
		mcp.WithString("projectSlug",
			mcp.Required(),
			mcp.Description("The project's slug"),
		),
		mcp.WithBoolean("includeSnippets",
			mcp.Description("Also include code snippets (default: false)"),
		),
		mcp.WithBoolean("includePrompts",
			mcp.Description("Also include prompt templates (default: false)"),
		),
	)
}

// Handle processes the get_project_context tool call.
func (t *GetProjectContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}

	pctx, err := t.stats.Context(ctx, slug, store.ContextOptions{
		IncludeSnippets: boolArg(req, "includeSnippets", false),
		IncludePrompts:  boolArg(req, "includePrompts", false),
	})
	if err != nil {
		return errResult(err, "building project context"), nil
	}
	return jsonResult(pctx)
}

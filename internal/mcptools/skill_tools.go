package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// GetSkillsTool handles the get_skills MCP tool.
type GetSkillsTool struct {
	skills *store.SkillStore
}

// NewGetSkillsTool creates a GetSkillsTool.
func NewGetSkillsTool(skills *store.SkillStore) *GetSkillsTool {
	return &GetSkillsTool{skills: skills}
}

// Definition returns the MCP tool definition for get_skills.
func (t *GetSkillsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_skills",
		mcp.WithDescription(
			"List a project's skills: reusable instructions, code templates, and "+
				"tool definitions. Inactive skills are excluded by default.",
		),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("type", mcp.Description("Filter: instructions, code_template, or tool_definition")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithBoolean("includeInactive", mcp.Description("Also include inactive skills")),
	)
}

// Handle processes the get_skills tool call.
func (t *GetSkillsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}

	opts := models.ListSkillsOptions{
		Tags:       splitTags(req.GetString("tags", "")),
		ActiveOnly: !boolArg(req, "includeInactive", false),
	}
	if raw := req.GetString("type", ""); raw != "" {
		typ, err := models.ParseSkillType(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Type = typ
	}

	skills, err := t.skills.List(ctx, slug, opts)
	if err != nil {
		return errResult(err, "listing skills"), nil
	}
	return jsonResult(map[string]any{
		"skills": skills,
		"total":  len(skills),
	})
}

// GetSkillContentTool handles the get_skill_content MCP tool.
type GetSkillContentTool struct {
	catalog *store.CatalogService
}

// NewGetSkillContentTool creates a GetSkillContentTool.
func NewGetSkillContentTool(catalog *store.CatalogService) *GetSkillContentTool {
	return &GetSkillContentTool{catalog: catalog}
}

// Definition returns the MCP tool definition for get_skill_content.
func (t *GetSkillContentTool) Definition() mcp.Tool {
	return mcp.NewTool("get_skill_content",
		mcp.WithDescription(
			"Get the full content of a skill by name. Without a project slug, all "+
				"projects are scanned and the first match wins. Use browse_all_skills "+
				"first to see what exists.",
		),
		mcp.WithString("skillName", mcp.Required(), mcp.Description("The skill's name")),
		mcp.WithString("projectSlug", mcp.Description("Specific project to read the skill from")),
	)
}

// Handle processes the get_skill_content tool call.
func (t *GetSkillContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("skillName", "")
	if name == "" {
		return mcp.NewToolResultError("'skillName' is required"), nil
	}

	skill, err := t.catalog.FindSkill(ctx, name, req.GetString("projectSlug", ""))
	if err != nil {
		return errResult(err, "getting skill content"), nil
	}
	return jsonResult(skill)
}

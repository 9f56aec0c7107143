package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/store"
	"contexthub/internal/templates"
)

// GetPromptTemplateTool handles the get_prompt_template MCP tool. It can
// return the raw template or render it with supplied variables.
type GetPromptTemplateTool struct {
	prompts *store.PromptStore
}

// NewGetPromptTemplateTool creates a GetPromptTemplateTool.
func NewGetPromptTemplateTool(prompts *store.PromptStore) *GetPromptTemplateTool {
	return &GetPromptTemplateTool{prompts: prompts}
}

// Definition returns the MCP tool definition for get_prompt_template.
func (t *GetPromptTemplateTool) Definition() mcp.Tool {
	return mcp.NewTool("get_prompt_template",
		mcp.WithDescription(
			"Fetch a prompt template by name. Set render=true with a variables "+
				"object to substitute {{placeholders}} and get the final text.",
		),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Template name")),
		mcp.WithBoolean("render", mcp.Description("Render the template instead of returning it raw")),
		mcp.WithObject("variables", mcp.Description("Variable values for rendering, e.g. {\"user\": \"alice\"}")),
	)
}

// Handle processes the get_prompt_template tool call.
func (t *GetPromptTemplateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	name := req.GetString("name", "")
	if slug == "" || name == "" {
		return mcp.NewToolResultError("'projectSlug' and 'name' are required"), nil
	}

	if !boolArg(req, "render", false) {
		prompt, err := t.prompts.GetByName(ctx, slug, name)
		if err != nil {
			return errResult(err, "getting prompt template"), nil
		}
		return jsonResult(prompt)
	}

	vars := map[string]string{}
	if raw, ok := req.GetArguments()["variables"].(map[string]any); ok {
		for k, v := range raw {
			vars[k] = fmt.Sprintf("%v", v)
		}
	}

	rendered, err := t.prompts.Render(ctx, slug, name, vars)
	if err != nil {
		var missing *templates.MissingVariableError
		if errors.As(err, &missing) {
			return mcp.NewToolResultError(fmt.Sprintf("Missing required variable '%s'", missing.Name)), nil
		}
		return errResult(err, "rendering prompt template"), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

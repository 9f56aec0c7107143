package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// GetCodeSnippetsTool handles the get_code_snippets MCP tool.
type GetCodeSnippetsTool struct {
	snippets *store.SnippetStore
}

// NewGetCodeSnippetsTool creates a GetCodeSnippetsTool.
func NewGetCodeSnippetsTool(snippets *store.SnippetStore) *GetCodeSnippetsTool {
	return &GetCodeSnippetsTool{snippets: snippets}
}

// Definition returns the MCP tool definition for get_code_snippets.
func (t *GetCodeSnippetsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_code_snippets",
		mcp.WithDescription(
			"List a project's code snippets, optionally filtered by language or "+
				"tags, or fetch a single snippet by name with its full code.",
		),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("name", mcp.Description("Fetch one snippet by name instead of listing")),
		mcp.WithString("language", mcp.Description("Filter by language, e.g. go or typescript")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	)
}

// Handle processes the get_code_snippets tool call.
func (t *GetCodeSnippetsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}

	if name := req.GetString("name", ""); name != "" {
		snippet, err := t.snippets.GetByName(ctx, slug, name)
		if err != nil {
			return errResult(err, "getting snippet"), nil
		}
		return jsonResult(snippet)
	}

	snippets, err := t.snippets.List(ctx, slug, models.ListSnippetsOptions{
		Language: req.GetString("language", ""),
		Tags:     splitTags(req.GetString("tags", "")),
	})
	if err != nil {
		return errResult(err, "listing snippets"), nil
	}
	return jsonResult(map[string]any{
		"snippets": snippets,
		"total":    len(snippets),
	})
}

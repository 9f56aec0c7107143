package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/models"
	"contexthub/internal/search"
)

// SearchContentTool handles the search_content MCP tool: federated
// full-text search across documents, skills, snippets and prompts.
type SearchContentTool struct {
	search *search.Service
}

// NewSearchContentTool creates a SearchContentTool.
func NewSearchContentTool(svc *search.Service) *SearchContentTool {
	return &SearchContentTool{search: svc}
}

// Definition returns the MCP tool definition for search_content.
func (t *SearchContentTool) Definition() mcp.Tool {
	return mcp.NewTool("search_content",
		mcp.WithDescription(
			"Full-text search across documents, skills, snippets and prompt "+
				"templates. Results are ranked by relevance across all types.",
		),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
		mcp.WithString("projectSlug", mcp.Description("Limit the search to one project")),
		mcp.WithString("types", mcp.Description("Comma-separated types: document, skill, snippet, prompt")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithNumber("limit", mcp.Description("Max results per page, default 20")),
		mcp.WithNumber("offset", mcp.Description("Results to skip")),
	)
}

// Handle processes the search_content tool call.
func (t *SearchContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	var types []models.SearchType
	for _, raw := range splitTags(req.GetString("types", "")) {
		st, err := models.ParseSearchType(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown search type '%s'", raw)), nil
		}
		types = append(types, st)
	}

	resp, err := t.search.Search(ctx, models.SearchQuery{
		Query:       query,
		ProjectSlug: req.GetString("projectSlug", ""),
		Types:       types,
		Tags:        splitTags(req.GetString("tags", "")),
		Limit:       intArg(req, "limit", 0),
		Offset:      intArg(req, "offset", 0),
	})
	if err != nil {
		return errResult(err, "searching"), nil
	}
	return jsonResult(resp)
}

package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

const documentTypeHint = "Document type: PLAN, TODO, SCOPE, TECHSTACK, UI_UX_STANDARDS, or CODING_GUIDELINES"

// AddDocumentTool handles the add_document MCP tool.
type AddDocumentTool struct {
	documents *store.DocumentStore
}

// NewAddDocumentTool creates an AddDocumentTool.
func NewAddDocumentTool(documents *store.DocumentStore) *AddDocumentTool {
	return &AddDocumentTool{documents: documents}
}

// Definition returns the MCP tool definition for add_document.
func (t *AddDocumentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_document",
		mcp.WithDescription(
			"Add a typed document to a project. A project holds at most one document "+
				"of each type; use update_document to change an existing one.",
		),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("type", mcp.Required(), mcp.Description(documentTypeHint)),
		mcp.WithString("title", mcp.Required(), mcp.Description("Document title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("username", mcp.Description("Author to record on the document")),
	)
}

// Handle processes the add_document tool call.
func (t *AddDocumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	typ, err := models.ParseDocumentType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := req.GetString("title", "")
	content := req.GetString("content", "")
	if slug == "" || title == "" || content == "" {
		return mcp.NewToolResultError("'projectSlug', 'title', and 'content' are required"), nil
	}

	doc, err := t.documents.Create(ctx, slug, models.CreateDocumentInput{
		Type:     typ,
		Title:    title,
		Content:  content,
		Tags:     splitTags(req.GetString("tags", "")),
		Username: req.GetString("username", ""),
	})
	if err != nil {
		return errResult(err, "adding document"), nil
	}
	return jsonResult(doc)
}

// UpdateDocumentTool handles the update_document MCP tool.
type UpdateDocumentTool struct {
	documents *store.DocumentStore
}

// NewUpdateDocumentTool creates an UpdateDocumentTool.
func NewUpdateDocumentTool(documents *store.DocumentStore) *UpdateDocumentTool {
	return &UpdateDocumentTool{documents: documents}
}

// Definition returns the MCP tool definition for update_document.
func (t *UpdateDocumentTool) Definition() mcp.Tool {
	return mcp.NewTool("update_document",
		mcp.WithDescription(
			"Update a project document. Changed content is versioned: the previous "+
				"content stays retrievable through the document's history.",
		),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("type", mcp.Required(), mcp.Description(documentTypeHint)),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New markdown content")),
		mcp.WithString("changeNote", mcp.Description("Why the content changed")),
		mcp.WithString("username", mcp.Description("Author to record on the change")),
	)
}

// Handle processes the update_document tool call.
func (t *UpdateDocumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}
	typ, err := models.ParseDocumentType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := models.UpdateDocumentInput{
		ChangeNote: req.GetString("changeNote", ""),
		Username:   req.GetString("username", ""),
	}
	if title := req.GetString("title", ""); title != "" {
		input.Title = &title
	}
	if content := req.GetString("content", ""); content != "" {
		input.Content = &content
	}

	doc, err := t.documents.Update(ctx, slug, typ, input)
	if err != nil {
		return errResult(err, "updating document"), nil
	}
	return jsonResult(doc)
}

// GetDocumentTool handles the get_document MCP tool.
type GetDocumentTool struct {
	documents *store.DocumentStore
}

// NewGetDocumentTool creates a GetDocumentTool.
func NewGetDocumentTool(documents *store.DocumentStore) *GetDocumentTool {
	return &GetDocumentTool{documents: documents}
}

// Definition returns the MCP tool definition for get_document.
func (t *GetDocumentTool) Definition() mcp.Tool {
	return mcp.NewTool("get_document",
		mcp.WithDescription("Get one project document by type, optionally a specific historic version."),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
		mcp.WithString("type", mcp.Required(), mcp.Description(documentTypeHint)),
		mcp.WithNumber("version",
			mcp.Description("Specific version number; omit for the current version"),
		),
	)
}

// Handle processes the get_document tool call.
func (t *GetDocumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}
	typ, err := models.ParseDocumentType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if version := intArg(req, "version", 0); version > 0 {
		entry, err := t.documents.GetVersion(ctx, slug, typ, version)
		if err != nil {
			return errResult(err, fmt.Sprintf("getting %s version %d", typ, version)), nil
		}
		return jsonResult(entry)
	}

	doc, err := t.documents.GetByType(ctx, slug, typ)
	if err != nil {
		return errResult(err, "getting document"), nil
	}
	return jsonResult(doc)
}

// GetTechstackContentTool handles the get_techstack_content MCP tool.
type GetTechstackContentTool struct {
	documents *store.DocumentStore
}

// NewGetTechstackContentTool creates a GetTechstackContentTool.
func NewGetTechstackContentTool(documents *store.DocumentStore) *GetTechstackContentTool {
	return &GetTechstackContentTool{documents: documents}
}

// Definition returns the MCP tool definition for get_techstack_content.
func (t *GetTechstackContentTool) Definition() mcp.Tool {
	return mcp.NewTool("get_techstack_content",
		mcp.WithDescription(
			"Get a project's TECHSTACK document content. Shortcut for "+
				"get_document with type TECHSTACK.",
		),
		mcp.WithString("projectSlug", mcp.Required(), mcp.Description("The project's slug")),
	)
}

// Handle processes the get_techstack_content tool call.
func (t *GetTechstackContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := req.GetString("projectSlug", "")
	if slug == "" {
		return mcp.NewToolResultError("'projectSlug' is required"), nil
	}

	doc, err := t.documents.GetByType(ctx, slug, models.DocTechstack)
	if err != nil {
		return errResult(err, "getting techstack"), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// DocumentHandler handles project document HTTP requests
type DocumentHandler struct {
	documents *store.DocumentStore
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *store.DocumentStore) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// CreateDocument creates a document; a duplicate type in the project is a 409
func (h *DocumentHandler) CreateDocument(c *fiber.Ctx) error {
	var input models.CreateDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	typ, err := models.ParseDocumentType(string(input.Type))
	if err != nil {
		return badRequest(c, err.Error())
	}
	input.Type = typ
	if input.Title == "" || input.Content == "" {
		return badRequest(c, "Title and content are required")
	}

	doc, err := h.documents.Create(c.Context(), c.Params("slug"), input)
	if err != nil {
		return fail(c, err, "Failed to create document")
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// ListDocuments returns the project's documents
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	docs, err := h.documents.List(c.Context(), c.Params("slug"), queryTags(c))
	if err != nil {
		return fail(c, err, "Failed to list documents")
	}
	return c.JSON(fiber.Map{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocument returns one document by type
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	typ, err := models.ParseDocumentType(c.Params("type"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	doc, err := h.documents.GetByType(c.Context(), c.Params("slug"), typ)
	if err != nil {
		return fail(c, err, "Failed to get document")
	}
	return c.JSON(doc)
}

// UpdateDocument applies a partial update; changed content bumps the version
func (h *DocumentHandler) UpdateDocument(c *fiber.Ctx) error {
	typ, err := models.ParseDocumentType(c.Params("type"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	var input models.UpdateDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	doc, err := h.documents.Update(c.Context(), c.Params("slug"), typ, input)
	if err != nil {
		return fail(c, err, "Failed to update document")
	}
	return c.JSON(doc)
}

// DeleteDocument removes one document by type
func (h *DocumentHandler) DeleteDocument(c *fiber.Ctx) error {
	typ, err := models.ParseDocumentType(c.Params("type"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.documents.Delete(c.Context(), c.Params("slug"), typ); err != nil {
		return fail(c, err, "Failed to delete document")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetDocumentVersions returns the full version history, newest first
func (h *DocumentHandler) GetDocumentVersions(c *fiber.Ctx) error {
	typ, err := models.ParseDocumentType(c.Params("type"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	versions, err := h.documents.VersionHistory(c.Context(), c.Params("slug"), typ)
	if err != nil {
		return fail(c, err, "Failed to get document versions")
	}
	return c.JSON(fiber.Map{
		"versions": versions,
		"total":    len(versions),
	})
}

// GetDocumentVersion returns one version snapshot by number
func (h *DocumentHandler) GetDocumentVersion(c *fiber.Ctx) error {
	typ, err := models.ParseDocumentType(c.Params("type"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	version, err := c.ParamsInt("version")
	if err != nil {
		return badRequest(c, "Version must be a number")
	}

	entry, err := h.documents.GetVersion(c.Context(), c.Params("slug"), typ, version)
	if err != nil {
		return fail(c, err, "Failed to get document version")
	}
	return c.JSON(entry)
}

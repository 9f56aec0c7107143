package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// SnippetHandler handles project code snippet HTTP requests
type SnippetHandler struct {
	snippets *store.SnippetStore
}

// NewSnippetHandler creates a new snippet handler
func NewSnippetHandler(snippets *store.SnippetStore) *SnippetHandler {
	return &SnippetHandler{snippets: snippets}
}

// CreateSnippet creates a snippet; a duplicate name in the project is a 409
func (h *SnippetHandler) CreateSnippet(c *fiber.Ctx) error {
	var input models.CreateSnippetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Language == "" || input.Code == "" {
		return badRequest(c, "Name, language, and code are required")
	}

	snippet, err := h.snippets.Create(c.Context(), c.Params("slug"), input)
	if err != nil {
		return fail(c, err, "Failed to create snippet")
	}
	return c.Status(fiber.StatusCreated).JSON(snippet)
}

// ListSnippets returns the project's snippets with optional filters
func (h *SnippetHandler) ListSnippets(c *fiber.Ctx) error {
	opts := models.ListSnippetsOptions{
		Language: c.Query("language"),
		Tags:     queryTags(c),
	}

	snippets, err := h.snippets.List(c.Context(), c.Params("slug"), opts)
	if err != nil {
		return fail(c, err, "Failed to list snippets")
	}
	return c.JSON(fiber.Map{
		"snippets": snippets,
		"total":    len(snippets),
	})
}

// GetSnippet returns one snippet by name
func (h *SnippetHandler) GetSnippet(c *fiber.Ctx) error {
	snippet, err := h.snippets.GetByName(c.Context(), c.Params("slug"), c.Params("name"))
	if err != nil {
		return fail(c, err, "Failed to get snippet")
	}
	return c.JSON(snippet)
}

// UpdateSnippet applies a partial update; changed code bumps the version
func (h *SnippetHandler) UpdateSnippet(c *fiber.Ctx) error {
	var input models.UpdateSnippetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	snippet, err := h.snippets.Update(c.Context(), c.Params("slug"), c.Params("name"), input)
	if err != nil {
		return fail(c, err, "Failed to update snippet")
	}
	return c.JSON(snippet)
}

// DeleteSnippet removes one snippet by name
func (h *SnippetHandler) DeleteSnippet(c *fiber.Ctx) error {
	if err := h.snippets.Delete(c.Context(), c.Params("slug"), c.Params("name")); err != nil {
		return fail(c, err, "Failed to delete snippet")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSnippetVersions returns the full version history, newest first
func (h *SnippetHandler) GetSnippetVersions(c *fiber.Ctx) error {
	versions, err := h.snippets.VersionHistory(c.Context(), c.Params("slug"), c.Params("name"))
	if err != nil {
		return fail(c, err, "Failed to get snippet versions")
	}
	return c.JSON(fiber.Map{
		"versions": versions,
		"total":    len(versions),
	})
}

// GetSnippetVersion returns one version snapshot by number
func (h *SnippetHandler) GetSnippetVersion(c *fiber.Ctx) error {
	version, err := c.ParamsInt("version")
	if err != nil {
		return badRequest(c, "Version must be a number")
	}

	entry, err := h.snippets.GetVersion(c.Context(), c.Params("slug"), c.Params("name"), version)
	if err != nil {
		return fail(c, err, "Failed to get snippet version")
	}
	return c.JSON(entry)
}

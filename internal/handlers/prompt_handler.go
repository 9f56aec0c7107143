package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"contexthub/internal/models"
	"contexthub/internal/store"
	"contexthub/internal/templates"
)

// PromptHandler handles prompt template HTTP requests
type PromptHandler struct {
	prompts *store.PromptStore
}

// NewPromptHandler creates a new prompt template handler
func NewPromptHandler(prompts *store.PromptStore) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

// CreatePrompt creates a prompt template; a duplicate name is a 409
func (h *PromptHandler) CreatePrompt(c *fiber.Ctx) error {
	var input models.CreatePromptTemplateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Content == "" {
		return badRequest(c, "Name and content are required")
	}

	prompt, err := h.prompts.Create(c.Context(), c.Params("slug"), input)
	if err != nil {
		return fail(c, err, "Failed to create prompt template")
	}
	return c.Status(fiber.StatusCreated).JSON(prompt)
}

// ListPrompts returns the project's prompt templates with optional filters
func (h *PromptHandler) ListPrompts(c *fiber.Ctx) error {
	opts := models.ListPromptTemplatesOptions{
		Category: c.Query("category"),
		Tags:     queryTags(c),
	}

	prompts, err := h.prompts.List(c.Context(), c.Params("slug"), opts)
	if err != nil {
		return fail(c, err, "Failed to list prompt templates")
	}
	return c.JSON(fiber.Map{
		"prompts": prompts,
		"total":   len(prompts),
	})
}

// GetPrompt returns one prompt template by name
func (h *PromptHandler) GetPrompt(c *fiber.Ctx) error {
	prompt, err := h.prompts.GetByName(c.Context(), c.Params("slug"), c.Params("name"))
	if err != nil {
		return fail(c, err, "Failed to get prompt template")
	}
	return c.JSON(prompt)
}

// UpdatePrompt applies a partial update; changed content bumps the version
func (h *PromptHandler) UpdatePrompt(c *fiber.Ctx) error {
	var input models.UpdatePromptTemplateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	prompt, err := h.prompts.Update(c.Context(), c.Params("slug"), c.Params("name"), input)
	if err != nil {
		return fail(c, err, "Failed to update prompt template")
	}
	return c.JSON(prompt)
}

// DeletePrompt removes one prompt template by name
func (h *PromptHandler) DeletePrompt(c *fiber.Ctx) error {
	if err := h.prompts.Delete(c.Context(), c.Params("slug"), c.Params("name")); err != nil {
		return fail(c, err, "Failed to delete prompt template")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RenderPrompt substitutes supplied variables into the template. A
// missing required variable is a 400 naming the variable.
func (h *PromptHandler) RenderPrompt(c *fiber.Ctx) error {
	var body struct {
		Variables map[string]string `json:"variables"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	name := c.Params("name")
	rendered, err := h.prompts.Render(c.Context(), c.Params("slug"), name, body.Variables)
	if err != nil {
		var missing *templates.MissingVariableError
		if errors.As(err, &missing) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":    missing.Error(),
				"variable": missing.Name,
			})
		}
		return fail(c, err, "Failed to render prompt template")
	}

	return c.JSON(fiber.Map{
		"name":     name,
		"rendered": rendered,
	})
}

// GetPromptVersions returns the full version history, newest first
func (h *PromptHandler) GetPromptVersions(c *fiber.Ctx) error {
	versions, err := h.prompts.VersionHistory(c.Context(), c.Params("slug"), c.Params("name"))
	if err != nil {
		return fail(c, err, "Failed to get prompt template versions")
	}
	return c.JSON(fiber.Map{
		"versions": versions,
		"total":    len(versions),
	})
}

// GetPromptVersion returns one version snapshot by number
func (h *PromptHandler) GetPromptVersion(c *fiber.Ctx) error {
	version, err := c.ParamsInt("version")
	if err != nil {
		return badRequest(c, "Version must be a number")
	}

	entry, err := h.prompts.GetVersion(c.Context(), c.Params("slug"), c.Params("name"), version)
	if err != nil {
		return fail(c, err, "Failed to get prompt template version")
	}
	return c.JSON(entry)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projects *store.ProjectStore
	stats    *store.StatsService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *store.ProjectStore, stats *store.StatsService) *ProjectHandler {
	return &ProjectHandler{projects: projects, stats: stats}
}

// CreateProject creates a new project; a taken slug is a 409
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var input models.CreateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Slug == "" || input.Name == "" {
		return badRequest(c, "Slug and name are required")
	}

	project, err := h.projects.Create(c.Context(), input)
	if err != nil {
		return fail(c, err, "Failed to create project")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// ListProjects returns projects with per-collection counts
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	opts := models.ListProjectsOptions{
		Tags:   queryTags(c),
		Limit:  int64(c.QueryInt("limit", 50)),
		Offset: int64(c.QueryInt("offset", 0)),
	}
	if raw := c.Query("isTemplate"); raw != "" {
		isTemplate := raw == "true"
		opts.IsTemplate = &isTemplate
	}

	projects, total, err := h.stats.ListWithCounts(c.Context(), opts)
	if err != nil {
		return fail(c, err, "Failed to list projects")
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"total":    total,
		"limit":    opts.Limit,
		"offset":   opts.Offset,
	})
}

// GetProject returns a single project by slug
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	project, err := h.projects.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return fail(c, err, "Failed to get project")
	}
	return c.JSON(project)
}

// UpdateProject applies a partial update to a project
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	var input models.UpdateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	slug := c.Params("slug")
	project, err := h.projects.Update(c.Context(), slug, input)
	if err != nil {
		return fail(c, err, "Failed to update project")
	}
	h.stats.Invalidate(slug)
	return c.JSON(project)
}

// DeleteProject deletes a project and all of its content
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.projects.Delete(c.Context(), slug); err != nil {
		return fail(c, err, "Failed to delete project")
	}
	h.stats.Invalidate(slug)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetProjectContext returns the aggregated context for a project.
// Snippets and prompts are opt-in via query flags.
func (h *ProjectHandler) GetProjectContext(c *fiber.Ctx) error {
	opts := store.ContextOptions{
		IncludeSnippets: c.QueryBool("snippets", false),
		IncludePrompts:  c.QueryBool("prompts", false),
	}

	pctx, err := h.stats.Context(c.Context(), c.Params("slug"), opts)
	if err != nil {
		return fail(c, err, "Failed to build project context")
	}
	return c.JSON(pctx)
}

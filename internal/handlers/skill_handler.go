package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// SkillHandler handles project skill HTTP requests
type SkillHandler struct {
	skills *store.SkillStore
}

// NewSkillHandler creates a new skill handler
func NewSkillHandler(skills *store.SkillStore) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// CreateSkill creates a skill; a duplicate name in the project is a 409
func (h *SkillHandler) CreateSkill(c *fiber.Ctx) error {
	var input models.CreateSkillInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Content == "" {
		return badRequest(c, "Name and content are required")
	}
	typ, err := models.ParseSkillType(string(input.Type))
	if err != nil {
		return badRequest(c, err.Error())
	}
	input.Type = typ

	skill, err := h.skills.Create(c.Context(), c.Params("slug"), input)
	if err != nil {
		return fail(c, err, "Failed to create skill")
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// ListSkills returns the project's skills with optional filters
func (h *SkillHandler) ListSkills(c *fiber.Ctx) error {
	opts := models.ListSkillsOptions{
		Tags:       queryTags(c),
		ActiveOnly: c.QueryBool("active", false),
	}
	if raw := c.Query("type"); raw != "" {
		typ, err := models.ParseSkillType(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		opts.Type = typ
	}

	skills, err := h.skills.List(c.Context(), c.Params("slug"), opts)
	if err != nil {
		return fail(c, err, "Failed to list skills")
	}
	return c.JSON(fiber.Map{
		"skills": skills,
		"total":  len(skills),
	})
}

// GetSkill returns one skill by name
func (h *SkillHandler) GetSkill(c *fiber.Ctx) error {
	skill, err := h.skills.GetByName(c.Context(), c.Params("slug"), c.Params("name"))
	if err != nil {
		return fail(c, err, "Failed to get skill")
	}
	return c.JSON(skill)
}

// UpdateSkill applies a partial update; changed content bumps the version
func (h *SkillHandler) UpdateSkill(c *fiber.Ctx) error {
	var input models.UpdateSkillInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	skill, err := h.skills.Update(c.Context(), c.Params("slug"), c.Params("name"), input)
	if err != nil {
		return fail(c, err, "Failed to update skill")
	}
	return c.JSON(skill)
}

// DeleteSkill removes one skill by name
func (h *SkillHandler) DeleteSkill(c *fiber.Ctx) error {
	if err := h.skills.Delete(c.Context(), c.Params("slug"), c.Params("name")); err != nil {
		return fail(c, err, "Failed to delete skill")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSkillVersions returns the full version history, newest first
func (h *SkillHandler) GetSkillVersions(c *fiber.Ctx) error {
	versions, err := h.skills.VersionHistory(c.Context(), c.Params("slug"), c.Params("name"))
	if err != nil {
		return fail(c, err, "Failed to get skill versions")
	}
	return c.JSON(fiber.Map{
		"versions": versions,
		"total":    len(versions),
	})
}

// GetSkillVersion returns one version snapshot by number
func (h *SkillHandler) GetSkillVersion(c *fiber.Ctx) error {
	version, err := c.ParamsInt("version")
	if err != nil {
		return badRequest(c, "Version must be a number")
	}

	entry, err := h.skills.GetVersion(c.Context(), c.Params("slug"), c.Params("name"), version)
	if err != nil {
		return fail(c, err, "Failed to get skill version")
	}
	return c.JSON(entry)
}

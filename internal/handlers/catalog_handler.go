package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contexthub/internal/models"
	"contexthub/internal/store"
)

// CatalogHandler handles template catalog HTTP requests
type CatalogHandler struct {
	catalog     *store.CatalogService
	documents   *store.DocumentStore
	initializer *store.Initializer
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *store.CatalogService, documents *store.DocumentStore, initializer *store.Initializer) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, documents: documents, initializer: initializer}
}

// BrowseCatalog lists template projects grouped into categories
func (h *CatalogHandler) BrowseCatalog(c *fiber.Ctx) error {
	result, err := h.catalog.Browse(c.Context(), c.Query("category", "all"), c.Query("search"))
	if err != nil {
		return fail(c, err, "Failed to browse catalog")
	}
	return c.JSON(result)
}

// BrowseSkills lists the unique skills carried by template projects
func (h *CatalogHandler) BrowseSkills(c *fiber.Ctx) error {
	result, err := h.catalog.BrowseSkills(c.Context(),
		c.Query("category", "all"),
		models.SkillType(c.Query("type", "all")),
		c.Query("search"))
	if err != nil {
		return fail(c, err, "Failed to browse skills")
	}
	return c.JSON(result)
}

// GetSkillContent resolves a skill by name, scanning the catalog when no
// project is specified
func (h *CatalogHandler) GetSkillContent(c *fiber.Ctx) error {
	skill, err := h.catalog.FindSkill(c.Context(), c.Params("name"), c.Query("project"))
	if err != nil {
		return fail(c, err, "Failed to get skill content")
	}
	return c.JSON(skill)
}

// GetTechstackContent returns a project's TECHSTACK document
func (h *CatalogHandler) GetTechstackContent(c *fiber.Ctx) error {
	doc, err := h.documents.GetByType(c.Context(), c.Params("slug"), models.DocTechstack)
	if err != nil {
		return fail(c, err, "Failed to get techstack")
	}
	return c.JSON(doc)
}

// InitFromTechstack creates a new project seeded from a catalog template
func (h *CatalogHandler) InitFromTechstack(c *fiber.Ctx) error {
	var body struct {
		SourceSlug    string   `json:"sourceSlug"`
		NewSlug       string   `json:"newSlug"`
		NewName       string   `json:"newName"`
		Description   string   `json:"description"`
		Tags          []string `json:"tags"`
		CopyDocuments []string `json:"copyDocuments"`
		CopySkills    bool     `json:"copySkills"`
		Username      string   `json:"username"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.SourceSlug == "" || body.NewSlug == "" || body.NewName == "" {
		return badRequest(c, "sourceSlug, newSlug, and newName are required")
	}

	input := store.InitFromTechstackInput{
		SourceSlug:  body.SourceSlug,
		NewSlug:     body.NewSlug,
		NewName:     body.NewName,
		Description: body.Description,
		Tags:        body.Tags,
		CopySkills:  body.CopySkills,
		Username:    body.Username,
	}
	for _, raw := range body.CopyDocuments {
		typ, err := models.ParseDocumentType(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		input.CopyDocuments = append(input.CopyDocuments, typ)
	}

	result, err := h.initializer.InitFromTechstack(c.Context(), input)
	if err != nil {
		return fail(c, err, "Failed to initialize project")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

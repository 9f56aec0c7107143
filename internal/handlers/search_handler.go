package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contexthub/internal/models"
	"contexthub/internal/search"
)

// SearchHandler handles federated search HTTP requests
type SearchHandler struct {
	search *search.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *search.Service) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search runs a federated query across all collections
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	return h.run(c, c.Query("project"))
}

// SearchProject runs a federated query scoped to one project
func (h *SearchHandler) SearchProject(c *fiber.Ctx) error {
	return h.run(c, c.Params("slug"))
}

func (h *SearchHandler) run(c *fiber.Ctx, projectSlug string) error {
	query := c.Query("q")
	if query == "" {
		return badRequest(c, "Query parameter q is required")
	}

	sq := models.SearchQuery{
		Query:       query,
		ProjectSlug: projectSlug,
		Tags:        queryTags(c),
		Limit:       c.QueryInt("limit", search.DefaultLimit),
		Offset:      c.QueryInt("offset", 0),
	}
	for _, raw := range splitQuery(c.Query("types")) {
		typ, err := models.ParseSearchType(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		sq.Types = append(sq.Types, typ)
	}

	response, err := h.search.Search(c.Context(), sq)
	if err != nil {
		return fail(c, err, "Search failed")
	}
	return c.JSON(response)
}

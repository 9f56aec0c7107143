package models

import (
	"fmt"
	"time"
)

// SearchType selects which collections a federated search targets.
// Todos are not searchable.
type SearchType string

const (
	SearchDocument SearchType = "document"
	SearchSkill    SearchType = "skill"
	SearchSnippet  SearchType = "snippet"
	SearchPrompt   SearchType = "prompt"
)

// AllSearchTypes is the default target set.
var AllSearchTypes = []SearchType{SearchDocument, SearchSkill, SearchSnippet, SearchPrompt}

// ParseSearchType validates a raw search type string.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(s) {
	case SearchDocument, SearchSkill, SearchSnippet, SearchPrompt:
		return SearchType(s), nil
	}
	return "", fmt.Errorf("invalid search type %q", s)
}

// SearchResult is one hit in the globally ranked result list, normalized
// across all collections.
type SearchResult struct {
	Type        SearchType `json:"type"`
	ProjectSlug string     `json:"projectSlug"`
	Name        string     `json:"name"`
	Title       string     `json:"title,omitempty"`
	Excerpt     string     `json:"excerpt"`
	Score       float64    `json:"score"`
	Tags        []string   `json:"tags"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SearchQuery describes one federated search.
type SearchQuery struct {
	Query       string
	ProjectSlug string
	Types       []SearchType
	Tags        []string
	Limit       int
	Offset      int
}

// SearchResponse is the paginated slice of the globally ranked list; Total
// counts all merged hits before pagination.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Query   string         `json:"query"`
}

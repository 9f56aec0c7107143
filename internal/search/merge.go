package search

import (
	"sort"

	"contexthub/internal/models"
)

// DefaultLimit is the page size applied when a query does not set one.
const DefaultLimit = 20

// mergeAndPage globally ranks the per-collection result sets and cuts the
// requested page. Ordering is score descending with ties broken by
// (type, projectSlug, name) so identical-scoring hits always come back in
// the same order regardless of which collection answered first.
func mergeAndPage(sets [][]models.SearchResult, limit, offset int) ([]models.SearchResult, int) {
	var merged []models.SearchResult
	for _, set := range sets {
		merged = append(merged, set...)
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.ProjectSlug != b.ProjectSlug {
			return a.ProjectSlug < b.ProjectSlug
		}
		return a.Name < b.Name
	})

	total := len(merged)
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []models.SearchResult{}, total
	}
	end := min(total, offset+limit)
	return merged[offset:end], total
}

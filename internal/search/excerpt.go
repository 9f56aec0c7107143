package search

import (
	"strings"
	"unicode/utf8"
)

const excerptLength = 200

// Excerpt cuts a ~200 character window out of content around the first
// occurrence of any query term, starting 50 characters before the hit.
// Word-boundary cleanup only happens near the edges: a leading partial
// word is dropped when its space falls within the first 20 characters,
// a trailing one when its space falls within the last 30. Ellipses mark
// whichever sides were cut.
func Excerpt(content, query string) string {
	if content == "" {
		return ""
	}

	contentLower := strings.ToLower(content)
	bestPos := 0
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if pos := strings.Index(contentLower, term); pos != -1 {
			bestPos = max(0, pos-50)
			break
		}
	}

	end := min(len(content), bestPos+excerptLength)

	// Byte offsets can land inside a multibyte rune; snap both edges to
	// rune boundaries so the window is always valid UTF-8.
	for bestPos > 0 && !utf8.RuneStart(content[bestPos]) {
		bestPos--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end--
	}

	excerpt := content[bestPos:end]

	if bestPos > 0 {
		if firstSpace := strings.Index(excerpt, " "); firstSpace > 0 && firstSpace < 20 {
			excerpt = excerpt[firstSpace+1:]
		}
		excerpt = "..." + excerpt
	}

	if bestPos+excerptLength < len(content) {
		if lastSpace := strings.LastIndex(excerpt, " "); lastSpace != -1 && lastSpace > len(excerpt)-30 {
			excerpt = excerpt[:lastSpace]
		}
		excerpt = excerpt + "..."
	}

	return strings.TrimSpace(excerpt)
}

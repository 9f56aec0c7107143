package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"contexthub/internal/models"
)

func TestExcerptEmptyContent(t *testing.T) {
	if got := Excerpt("", "anything"); got != "" {
		t.Errorf("Excerpt of empty content = %q, want empty", got)
	}
}

func TestExcerptShortContentUntouched(t *testing.T) {
	content := "a short note about caching"
	if got := Excerpt(content, "caching"); got != content {
		t.Errorf("Excerpt = %q, want unchanged content", got)
	}
}

func TestExcerptWindowsAroundFirstHit(t *testing.T) {
	content := strings.Repeat("x", 300) + " the needle sits here " + strings.Repeat("y", 300)
	got := Excerpt(content, "needle")

	if !strings.Contains(got, "needle") {
		t.Fatalf("excerpt %q does not contain the hit", got)
	}
	if !strings.HasPrefix(got, "...") {
		t.Errorf("excerpt %q should mark a cut start", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt %q should mark a cut end", got)
	}
	// 200-char window plus two ellipses, minus boundary trimming
	if len(got) > excerptLength+6 {
		t.Errorf("excerpt length %d exceeds window", len(got))
	}
}

func TestExcerptKeepsMultibyteRunesIntact(t *testing.T) {
	// Window edges land mid-rune when the hit is surrounded by two-byte
	// runes; both must snap to rune boundaries.
	content := strings.Repeat("é", 60) + " caching " + strings.Repeat("é", 200)
	got := Excerpt(content, "caching")

	if !utf8.ValidString(got) {
		t.Fatalf("excerpt contains invalid UTF-8: %q", got)
	}
	if !strings.Contains(got, "caching") {
		t.Errorf("excerpt %q does not contain the hit", got)
	}
}

func TestExcerptCaseInsensitive(t *testing.T) {
	content := strings.Repeat("z", 100) + " NeEdLe " + strings.Repeat("z", 300)
	got := Excerpt(content, "needle")
	if !strings.Contains(got, "NeEdLe") {
		t.Errorf("excerpt %q missed case-differing hit", got)
	}
}

func TestExcerptMissingTermFallsBackToHead(t *testing.T) {
	content := "leading words " + strings.Repeat("a", 400)
	got := Excerpt(content, "absent")
	if !strings.HasPrefix(got, "leading words") {
		t.Errorf("excerpt %q should start at content head", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt %q should mark a cut end", got)
	}
}

func mkResult(typ models.SearchType, slug, name string, score float64) models.SearchResult {
	return models.SearchResult{Type: typ, ProjectSlug: slug, Name: name, Score: score}
}

// sameResult compares the identity fields; SearchResult itself carries a
// tag slice and is not comparable with ==.
func sameResult(a, b models.SearchResult) bool {
	return a.Type == b.Type && a.ProjectSlug == b.ProjectSlug && a.Name == b.Name && a.Score == b.Score
}

func TestMergeAndPageRanksByScore(t *testing.T) {
	sets := [][]models.SearchResult{
		{mkResult(models.SearchDocument, "p1", "PLAN", 1.2)},
		{mkResult(models.SearchSkill, "p1", "auth", 3.4), mkResult(models.SearchSkill, "p2", "cache", 0.5)},
	}

	results, total := mergeAndPage(sets, 10, 0)
	if total != 3 || len(results) != 3 {
		t.Fatalf("total=%d len=%d, want 3/3", total, len(results))
	}
	if results[0].Name != "auth" || results[1].Name != "PLAN" || results[2].Name != "cache" {
		t.Errorf("unexpected order: %v %v %v", results[0].Name, results[1].Name, results[2].Name)
	}
}

func TestMergeAndPageTieBreakIsDeterministic(t *testing.T) {
	a := mkResult(models.SearchDocument, "p1", "PLAN", 2.0)
	b := mkResult(models.SearchPrompt, "p1", "greet", 2.0)
	c := mkResult(models.SearchPrompt, "p2", "greet", 2.0)
	d := mkResult(models.SearchPrompt, "p2", "review", 2.0)

	// feed the same hits in two different arrival orders
	first, _ := mergeAndPage([][]models.SearchResult{{d, b}, {c, a}}, 10, 0)
	second, _ := mergeAndPage([][]models.SearchResult{{a, c}, {b, d}}, 10, 0)

	for i := range first {
		if !sameResult(first[i], second[i]) {
			t.Fatalf("order depends on arrival: %v vs %v", first, second)
		}
	}
	want := []models.SearchResult{a, b, c, d}
	for i := range want {
		if !sameResult(first[i], want[i]) {
			t.Errorf("tie-break order wrong: %+v", first)
			break
		}
	}
}

func TestMergeAndPagePagination(t *testing.T) {
	var set []models.SearchResult
	for i := 0; i < 5; i++ {
		set = append(set, mkResult(models.SearchSkill, "p", string(rune('a'+i)), float64(5-i)))
	}

	page, total := mergeAndPage([][]models.SearchResult{set}, 2, 2)
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].Name != "c" || page[1].Name != "d" {
		t.Errorf("page = %+v, want [c d]", page)
	}
}

func TestMergeAndPageOffsetPastEnd(t *testing.T) {
	set := []models.SearchResult{mkResult(models.SearchSnippet, "p", "only", 1)}
	page, total := mergeAndPage([][]models.SearchResult{set}, 10, 50)
	if total != 1 || len(page) != 0 {
		t.Errorf("total=%d len=%d, want 1/0", total, len(page))
	}
}

func TestMergeAndPageDefaultLimit(t *testing.T) {
	var set []models.SearchResult
	for i := 0; i < 30; i++ {
		set = append(set, mkResult(models.SearchDocument, "p", string(rune('a'+i)), float64(i)))
	}
	page, _ := mergeAndPage([][]models.SearchResult{set}, 0, 0)
	if len(page) != DefaultLimit {
		t.Errorf("default page size = %d, want %d", len(page), DefaultLimit)
	}
}

func TestNormalizeRowTitles(t *testing.T) {
	snippet := normalizeRow(models.SearchSnippet, row{Name: "retry", Language: "go", Code: "func retry() {}"}, "retry")
	if snippet.Title != "retry (go)" {
		t.Errorf("snippet title = %q", snippet.Title)
	}

	prompt := normalizeRow(models.SearchPrompt, row{Name: "greet", Category: "onboarding", Content: "hi"}, "hi")
	if prompt.Title != "greet (onboarding)" {
		t.Errorf("prompt title = %q", prompt.Title)
	}

	bare := normalizeRow(models.SearchPrompt, row{Name: "greet", Content: "hi"}, "hi")
	if bare.Title != "greet" {
		t.Errorf("uncategorized prompt title = %q", bare.Title)
	}

	if bare.Tags == nil {
		t.Error("tags must never be nil")
	}
}

func TestNormalizeRowPrefersDescription(t *testing.T) {
	r := row{Name: "auth", Description: "JWT auth patterns", Content: "long body"}
	got := normalizeRow(models.SearchSkill, r, "auth")
	if !strings.Contains(got.Excerpt, "JWT auth patterns") {
		t.Errorf("excerpt %q should come from description", got.Excerpt)
	}
}

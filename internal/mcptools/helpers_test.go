package mcptools

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"contexthub/internal/store"
)

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestIntArg(t *testing.T) {
	req := makeReq(map[string]interface{}{
		"limit": float64(25),
		"bad":   "ten",
	})

	if got := intArg(req, "limit", 50); got != 25 {
		t.Errorf("intArg(limit) = %d, want 25", got)
	}
	if got := intArg(req, "bad", 50); got != 50 {
		t.Errorf("intArg(bad) = %d, want default 50", got)
	}
	if got := intArg(req, "missing", 7); got != 7 {
		t.Errorf("intArg(missing) = %d, want default 7", got)
	}
}

func TestBoolArg(t *testing.T) {
	req := makeReq(map[string]interface{}{
		"on":  true,
		"bad": "yes",
	})

	if !boolArg(req, "on", false) {
		t.Error("boolArg(on) = false, want true")
	}
	if boolArg(req, "bad", false) {
		t.Error("boolArg(bad) = true, want default false")
	}
	if !boolArg(req, "missing", true) {
		t.Error("boolArg(missing) = false, want default true")
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"go", []string{"go"}},
		{"go,backend", []string{"go", "backend"}},
		{" go , backend ,", []string{"go", "backend"}},
		{",,", nil},
	}
	for _, tt := range tests {
		if got := splitTags(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitTags(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestErrResult(t *testing.T) {
	notFound := errResult(store.ErrNotFound, "getting todo")
	if got := resultText(notFound); got != "getting todo: not found" {
		t.Errorf("not-found text = %q", got)
	}

	conflict := errResult(store.ErrConflict, "adding document")
	if got := resultText(conflict); got != "adding document: already exists" {
		t.Errorf("conflict text = %q", got)
	}

	plain := errResult(errors.New("boom"), "listing")
	if got := resultText(plain); got != "listing: boom" {
		t.Errorf("generic text = %q", got)
	}
}

func TestJSONResult(t *testing.T) {
	res, err := jsonResult(map[string]int{"total": 3})
	if err != nil {
		t.Fatalf("jsonResult returned error: %v", err)
	}
	if got := resultText(res); got != "{\n  \"total\": 3\n}" {
		t.Errorf("jsonResult text = %q", got)
	}
}

func TestContentPreview(t *testing.T) {
	if got := contentPreview("short", 500); got != "short" {
		t.Errorf("short content changed: %q", got)
	}

	long := strings.Repeat("a", 600)
	got := contentPreview(long, 500)
	if len(got) != 503 || !strings.HasSuffix(got, "...") {
		t.Errorf("preview len = %d, want 500 plus ellipsis", len(got))
	}

	// The cut must never split a multibyte rune.
	accented := strings.Repeat("é", 300)
	got = contentPreview(accented, 499)
	if !utf8.ValidString(got) {
		t.Errorf("preview contains invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview %q missing ellipsis", got)
	}
}

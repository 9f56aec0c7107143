package cli

import "testing"

func TestJoinTags(t *testing.T) {
	if got := joinTags(nil); got != "-" {
		t.Errorf("joinTags(nil) = %q, want -", got)
	}
	if got := joinTags([]string{"go", "backend"}); got != "go,backend" {
		t.Errorf("joinTags = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a long description here", 10); got != "a long ..." {
		t.Errorf("truncate = %q", got)
	}
	if len(truncate("a long description here", 10)) != 10 {
		t.Error("truncated string exceeds max")
	}
}

package versioning

import (
	"testing"
	"time"
)

type snap struct {
	Content string `bson:"content" json:"content"`
}

func TestRecordBumpsMonotonically(t *testing.T) {
	h := NewHistory[snap]()
	now := time.Now()

	contents := []string{"v1", "v2", "v3", "v4"}
	for i, c := range contents {
		if h.CurrentVersion != i+1 {
			t.Fatalf("before update %d: currentVersion = %d, want %d", i, h.CurrentVersion, i+1)
		}
		h.Record(snap{Content: c}, "", "", now)
	}

	if h.CurrentVersion != 5 {
		t.Errorf("after 4 updates: currentVersion = %d, want 5", h.CurrentVersion)
	}
	if len(h.Versions) != 4 {
		t.Fatalf("history length = %d, want 4", len(h.Versions))
	}
	for i, e := range h.Versions {
		if e.Version != i+1 {
			t.Errorf("entry %d has version %d, want %d", i, e.Version, i+1)
		}
		if e.Snapshot.Content != contents[i] {
			t.Errorf("entry %d snapshot = %q, want %q", i, e.Snapshot.Content, contents[i])
		}
	}
}

func TestHistoryEntriesAreImmutable(t *testing.T) {
	h := NewHistory[snap]()
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.Record(snap{Content: "original"}, "first note", "alice", first)

	// Further updates must not touch the existing entry.
	h.Record(snap{Content: "second"}, "second note", "bob", first.Add(time.Hour))

	e := h.Versions[0]
	if e.Snapshot.Content != "original" || e.ChangeNote != "first note" || e.Author != "alice" || !e.ChangedAt.Equal(first) {
		t.Errorf("first entry mutated: %+v", e)
	}
}

func TestAtSynthesizesCurrentVersion(t *testing.T) {
	h := NewHistory[snap]()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.Record(snap{Content: "old"}, "", "", now)

	live := snap{Content: "live"}
	updatedAt := now.Add(time.Minute)

	e, ok := h.At(2, live, updatedAt)
	if !ok {
		t.Fatal("At(currentVersion) returned not found")
	}
	if e.Snapshot.Content != "live" {
		t.Errorf("synthesized snapshot = %q, want live content", e.Snapshot.Content)
	}
	if !e.ChangedAt.Equal(updatedAt) {
		t.Errorf("synthesized changedAt = %v, want %v", e.ChangedAt, updatedAt)
	}

	e, ok = h.At(1, live, updatedAt)
	if !ok || e.Snapshot.Content != "old" {
		t.Errorf("At(1) = %+v, %v; want historical entry", e, ok)
	}

	if _, ok := h.At(3, live, updatedAt); ok {
		t.Error("At(3) found a version beyond currentVersion")
	}
	if _, ok := h.At(0, live, updatedAt); ok {
		t.Error("At(0) found a nonexistent version")
	}
}

func TestTimelineDescendingWithCurrentHead(t *testing.T) {
	h := NewHistory[snap]()
	now := time.Now()
	h.Record(snap{Content: "a"}, "", "", now)
	h.Record(snap{Content: "b"}, "", "", now)

	tl := h.Timeline(snap{Content: "c"}, now)
	if len(tl) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(tl))
	}
	for i, want := range []int{3, 2, 1} {
		if tl[i].Version != want {
			t.Errorf("timeline[%d].Version = %d, want %d", i, tl[i].Version, want)
		}
	}
	if tl[0].ChangeNote != "Current version" {
		t.Errorf("head change note = %q, want synthesized current marker", tl[0].ChangeNote)
	}
	if tl[0].Snapshot.Content != "c" {
		t.Errorf("head snapshot = %q, want live content", tl[0].Snapshot.Content)
	}
}

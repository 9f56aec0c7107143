// Package versioning implements the append-only version history shared by
// every content entity. The history never contains the live payload: entry N
// is the snapshot that version N held before it was superseded, and the
// change note attached to it is the one supplied by the update that
// superseded it.
package versioning

import "time"

// Entry is one superseded snapshot of a record's versioned payload.
type Entry[S any] struct {
	Version    int       `bson:"version" json:"version"`
	Snapshot   S         `bson:"snapshot" json:"snapshot"`
	ChangedAt  time.Time `bson:"changedAt" json:"changedAt"`
	ChangeNote string    `bson:"changeNote,omitempty" json:"changeNote,omitempty"`
	Author     string    `bson:"author,omitempty" json:"author,omitempty"`
}

// History tracks the version counter and superseded snapshots for one record.
// It is embedded (bson-inline) in each entity, so the persisted shape is
// {currentVersion, versions: [...]} alongside the live fields.
type History[S any] struct {
	CurrentVersion int        `bson:"currentVersion" json:"currentVersion"`
	Versions       []Entry[S] `bson:"versions" json:"versions"`
}

// NewHistory returns a fresh history: version 1, no superseded snapshots.
func NewHistory[S any]() History[S] {
	return History[S]{CurrentVersion: 1, Versions: []Entry[S]{}}
}

// Record pushes the pre-change snapshot onto the history and bumps the
// counter. Call it before replacing the live payload.
func (h *History[S]) Record(prior S, note, author string, now time.Time) {
	h.Versions = append(h.Versions, Entry[S]{
		Version:    h.CurrentVersion,
		Snapshot:   prior,
		ChangedAt:  now,
		ChangeNote: note,
		Author:     author,
	})
	h.CurrentVersion++
}

// At returns version n. The current version has no history entry, so it is
// synthesized from the live snapshot; anything else is looked up in the
// history. The second return is false when n is out of range.
func (h *History[S]) At(n int, live S, updatedAt time.Time) (Entry[S], bool) {
	if n == h.CurrentVersion {
		return Entry[S]{Version: n, Snapshot: live, ChangedAt: updatedAt}, true
	}
	for _, e := range h.Versions {
		if e.Version == n {
			return e, true
		}
	}
	return Entry[S]{}, false
}

// Timeline returns every version newest-first, with a synthesized entry for
// the current version at the head.
func (h *History[S]) Timeline(live S, updatedAt time.Time) []Entry[S] {
	out := make([]Entry[S], 0, len(h.Versions)+1)
	out = append(out, Entry[S]{
		Version:    h.CurrentVersion,
		Snapshot:   live,
		ChangedAt:  updatedAt,
		ChangeNote: "Current version",
	})
	for i := len(h.Versions) - 1; i >= 0; i-- {
		out = append(out, h.Versions[i])
	}
	return out
}

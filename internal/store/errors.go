// Package store implements per-entity persistence on MongoDB. All stores
// signal expected business conditions through typed sentinels instead of
// raw driver errors: absence is ErrNotFound, a natural-key collision is
// ErrConflict. Only the calling layer decides how those surface.
package store

import "errors"

var (
	// ErrNotFound means the project or record does not exist for the
	// requested key.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the natural key already exists in the project, or a
	// concurrent writer bumped the version first.
	ErrConflict = errors.New("conflict")
)

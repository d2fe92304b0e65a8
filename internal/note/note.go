// Package note defines the note model persisted by the storage layer.
package note

import "time"

// Note is a single text note owned by exactly one user.
// Every storage operation on a note carries the owner's user ID in its predicate,
// so a note is never visible to anyone but its creator.
type Note struct {
	// ID is the unique identifier of the note, assigned by the storage.
	ID int64

	// UserID is the UUID of the owning user.
	UserID string

	Title   string
	Content string

	// CreatedAt is set once at creation. UpdatedAt starts equal to CreatedAt
	// and is refreshed on every mutation.
	CreatedAt time.Time
	UpdatedAt time.Time
}

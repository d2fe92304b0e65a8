package storage

import (
	"context"

	"github.com/patric-chuzhbe/notes/internal/note"
	"github.com/patric-chuzhbe/notes/internal/user"
)

// Storage is the persistence contract shared by the Postgres and in-memory
// backends. Every note operation takes the owner's user ID and bakes it into
// the lookup predicate.
type Storage interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error)

	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)

	ListNotes(ctx context.Context, userID string) ([]note.Note, error)

	GetNote(ctx context.Context, userID string, noteID int64) (*note.Note, error)

	CreateNote(ctx context.Context, userID, title, content string) (*note.Note, error)

	UpdateNote(
		ctx context.Context,
		userID string,
		noteID int64,
		title *string,
		content *string,
	) (*note.Note, error)

	DeleteNote(ctx context.Context, userID string, noteID int64) error

	Ping(ctx context.Context) error

	Close() error
}

// Package memorystorage provides an in-memory implementation of the storage
// interface. It backs the service when no database DSN is configured and
// keeps handler tests free of external dependencies.
package memorystorage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/notes/internal/models"
	"github.com/patric-chuzhbe/notes/internal/note"
	"github.com/patric-chuzhbe/notes/internal/user"
)

// MemoryStorage keeps users and notes in maps guarded by a single RWMutex.
type MemoryStorage struct {
	mu sync.RWMutex

	usersByID      map[string]*user.User
	userIDsByEmail map[string]string

	notes      map[int64]*note.Note
	nextNoteID int64

	// now is swappable in tests to get distinct timestamps.
	now func() time.Time
}

// New returns an empty MemoryStorage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		usersByID:      map[string]*user.User{},
		userIDsByEmail: map[string]string{},
		notes:          map[int64]*note.Note{},
		nextNoteID:     1,
		now:            time.Now,
	}, nil
}

// CreateUser stores a new user under a fresh UUID.
// A duplicate email yields models.ErrEmailAlreadyTaken.
func (theStorage *MemoryStorage) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	if _, exists := theStorage.userIDsByEmail[email]; exists {
		return nil, models.ErrEmailAlreadyTaken
	}

	usr := &user.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    theStorage.now(),
	}
	theStorage.usersByID[usr.ID] = usr
	theStorage.userIDsByEmail[email] = usr.ID

	userCopy := *usr

	return &userCopy, nil
}

// FindUserByEmail looks a user up by the normalized email.
func (theStorage *MemoryStorage) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	userID, exists := theStorage.userIDsByEmail[email]
	if !exists {
		return nil, false, nil
	}

	userCopy := *theStorage.usersByID[userID]

	return &userCopy, true, nil
}

// ListNotes returns the user's notes ordered by update time descending.
func (theStorage *MemoryStorage) ListNotes(ctx context.Context, userID string) ([]note.Note, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	result := []note.Note{}
	for _, n := range theStorage.notes {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// GetNote returns the note only when it exists and belongs to userID.
func (theStorage *MemoryStorage) GetNote(ctx context.Context, userID string, noteID int64) (*note.Note, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	n, exists := theStorage.notes[noteID]
	if !exists || n.UserID != userID {
		return nil, models.ErrNoteNotFound
	}

	noteCopy := *n

	return &noteCopy, nil
}

// CreateNote stores a new note with both timestamps set to the same instant.
func (theStorage *MemoryStorage) CreateNote(ctx context.Context, userID, title, content string) (*note.Note, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	currentTime := theStorage.now()
	n := &note.Note{
		ID:        theStorage.nextNoteID,
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: currentTime,
		UpdatedAt: currentTime,
	}
	theStorage.nextNoteID++
	theStorage.notes[n.ID] = n

	noteCopy := *n

	return &noteCopy, nil
}

// UpdateNote overwrites only the non-nil fields and refreshes UpdatedAt.
func (theStorage *MemoryStorage) UpdateNote(
	ctx context.Context,
	userID string,
	noteID int64,
	title *string,
	content *string,
) (*note.Note, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	n, exists := theStorage.notes[noteID]
	if !exists || n.UserID != userID {
		return nil, models.ErrNoteNotFound
	}

	if title != nil {
		n.Title = *title
	}
	if content != nil {
		n.Content = *content
	}
	n.UpdatedAt = theStorage.now()

	noteCopy := *n

	return &noteCopy, nil
}

// DeleteNote removes the note only when it belongs to userID.
func (theStorage *MemoryStorage) DeleteNote(ctx context.Context, userID string, noteID int64) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	n, exists := theStorage.notes[noteID]
	if !exists || n.UserID != userID {
		return models.ErrNoteNotFound
	}

	delete(theStorage.notes, noteID)

	return nil
}

// Ping always reports the in-memory storage as healthy.
func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory storage.
func (theStorage *MemoryStorage) Close() error {
	return nil
}

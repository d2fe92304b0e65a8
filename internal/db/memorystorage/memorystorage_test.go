package memorystorage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/notes/internal/models"
)

// newTestStorage returns a storage whose clock advances one second on
// every call, so consecutive writes get strictly increasing timestamps.
func newTestStorage(t *testing.T) *MemoryStorage {
	theStorage, err := New()
	require.NoError(t, err)

	currentTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	theStorage.now = func() time.Time {
		currentTime = currentTime.Add(time.Second)
		return currentTime
	}

	return theStorage
}

func TestUsers(t *testing.T) {
	theStorage := newTestStorage(t)
	ctx := context.Background()

	usr, err := theStorage.CreateUser(ctx, "a@x.com", "some-hash")
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "a@x.com", usr.Email)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := theStorage.CreateUser(ctx, "a@x.com", "another-hash")
		assert.ErrorIs(t, err, models.ErrEmailAlreadyTaken)
	})

	t.Run("find by email", func(t *testing.T) {
		found, exists, err := theStorage.FindUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.True(t, exists)
		assert.Equal(t, usr.ID, found.ID)
		assert.Equal(t, "some-hash", found.PasswordHash)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, exists, err := theStorage.FindUserByEmail(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestNotesLifecycle(t *testing.T) {
	theStorage := newTestStorage(t)
	ctx := context.Background()

	owner, err := theStorage.CreateUser(ctx, "a@x.com", "some-hash")
	require.NoError(t, err)

	created, err := theStorage.CreateNote(ctx, owner.ID, "T", "C")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt, "Timestamps should start equal")

	t.Run("patch with title only keeps content", func(t *testing.T) {
		newTitle := "T2"
		updated, err := theStorage.UpdateNote(ctx, owner.ID, created.ID, &newTitle, nil)
		require.NoError(t, err)
		assert.Equal(t, "T2", updated.Title)
		assert.Equal(t, "C", updated.Content)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	})

	t.Run("patch with content only keeps title", func(t *testing.T) {
		newContent := "C2"
		updated, err := theStorage.UpdateNote(ctx, owner.ID, created.ID, nil, &newContent)
		require.NoError(t, err)
		assert.Equal(t, "T2", updated.Title)
		assert.Equal(t, "C2", updated.Content)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, theStorage.DeleteNote(ctx, owner.ID, created.ID))

		_, err := theStorage.GetNote(ctx, owner.ID, created.ID)
		assert.ErrorIs(t, err, models.ErrNoteNotFound)

		err = theStorage.DeleteNote(ctx, owner.ID, created.ID)
		assert.ErrorIs(t, err, models.ErrNoteNotFound)
	})
}

func TestListNotesOrdering(t *testing.T) {
	theStorage := newTestStorage(t)
	ctx := context.Background()

	owner, err := theStorage.CreateUser(ctx, "a@x.com", "some-hash")
	require.NoError(t, err)

	first, err := theStorage.CreateNote(ctx, owner.ID, "first", "")
	require.NoError(t, err)
	second, err := theStorage.CreateNote(ctx, owner.ID, "second", "")
	require.NoError(t, err)
	third, err := theStorage.CreateNote(ctx, owner.ID, "third", "")
	require.NoError(t, err)

	notes, err := theStorage.ListNotes(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{notes[0].ID, notes[1].ID, notes[2].ID})

	t.Run("updating a note moves it to the front", func(t *testing.T) {
		newContent := "touched"
		_, err := theStorage.UpdateNote(ctx, owner.ID, first.ID, nil, &newContent)
		require.NoError(t, err)

		notes, err := theStorage.ListNotes(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, []int64{first.ID, third.ID, second.ID}, []int64{notes[0].ID, notes[1].ID, notes[2].ID})
	})
}

func TestNotesOwnershipIsolation(t *testing.T) {
	theStorage := newTestStorage(t)
	ctx := context.Background()

	userA, err := theStorage.CreateUser(ctx, "a@x.com", "some-hash")
	require.NoError(t, err)
	userB, err := theStorage.CreateUser(ctx, "b@x.com", "some-hash")
	require.NoError(t, err)

	secret, err := theStorage.CreateNote(ctx, userA.ID, "secret", "only for A")
	require.NoError(t, err)

	t.Run("foreign get is indistinguishable from missing", func(t *testing.T) {
		_, err := theStorage.GetNote(ctx, userB.ID, secret.ID)
		assert.ErrorIs(t, err, models.ErrNoteNotFound)
	})

	t.Run("foreign update is rejected", func(t *testing.T) {
		newTitle := "stolen"
		_, err := theStorage.UpdateNote(ctx, userB.ID, secret.ID, &newTitle, nil)
		assert.ErrorIs(t, err, models.ErrNoteNotFound)
	})

	t.Run("foreign delete is rejected", func(t *testing.T) {
		err := theStorage.DeleteNote(ctx, userB.ID, secret.ID)
		assert.ErrorIs(t, err, models.ErrNoteNotFound)
	})

	t.Run("foreign notes do not appear in list", func(t *testing.T) {
		notes, err := theStorage.ListNotes(ctx, userB.ID)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("the owner still sees the note", func(t *testing.T) {
		found, err := theStorage.GetNote(ctx, userA.ID, secret.ID)
		require.NoError(t, err)
		assert.Equal(t, "secret", found.Title)
	})
}

func TestPingAndClose(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	assert.NoError(t, theStorage.Ping(context.Background()))
	assert.NoError(t, theStorage.Close())
}

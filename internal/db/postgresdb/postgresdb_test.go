package postgresdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/notes/internal/models"
)

func newMockedDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	database, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return &PostgresDB{
		database:          database,
		connectionTimeout: time.Second,
	}, mock
}

func noteRows(noteID int64, userID, title, content string, createdAt, updatedAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}).
		AddRow(noteID, userID, title, content, createdAt, updatedAt)
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockedDB(t)

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "some-hash").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "created_at"}).
				AddRow("user-1", "a@x.com", createdAt),
		)

	usr, err := db.CreateUser(context.Background(), "a@x.com", "some-hash")
	require.NoError(t, err)
	assert.Equal(t, "user-1", usr.ID)
	assert.Equal(t, "a@x.com", usr.Email)
	assert.Equal(t, "some-hash", usr.PasswordHash)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "some-hash").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := db.CreateUser(context.Background(), "a@x.com", "some-hash")
	assert.ErrorIs(t, err, models.ErrEmailAlreadyTaken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByEmail(t *testing.T) {
	db, mock := newMockedDB(t)

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT id, email, password_hash, created_at FROM users`).
		WithArgs("a@x.com").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
				AddRow("user-1", "a@x.com", "some-hash", createdAt),
		)

	usr, found, err := db.FindUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "user-1", usr.ID)
	assert.Equal(t, "some-hash", usr.PasswordHash)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByEmailNotFound(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at FROM users`).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	_, found, err := db.FindUserByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotes(t *testing.T) {
	db, mock := newMockedDB(t)

	now := time.Now()
	mock.ExpectQuery(`FROM notes`).
		WithArgs("user-1").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}).
				AddRow(int64(2), "user-1", "newer", "", now.Add(-time.Hour), now).
				AddRow(int64(1), "user-1", "older", "", now.Add(-2*time.Hour), now.Add(-2*time.Hour)),
		)

	notes, err := db.ListNotes(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, int64(2), notes[0].ID)
	assert.Equal(t, int64(1), notes[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNoteNotFound(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectQuery(`FROM notes WHERE id`).
		WithArgs(int64(42), "user-1").
		WillReturnError(sql.ErrNoRows)

	_, err := db.GetNote(context.Background(), "user-1", 42)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNote(t *testing.T) {
	db, mock := newMockedDB(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO notes`).
		WithArgs("user-1", "T", "C").
		WillReturnRows(noteRows(1, "user-1", "T", "C", now, now))

	created, err := db.CreateNote(context.Background(), "user-1", "T", "C")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNote(t *testing.T) {
	db, mock := newMockedDB(t)

	now := time.Now()
	newContent := "C2"
	mock.ExpectQuery(`UPDATE notes`).
		WithArgs(nil, "C2", int64(1), "user-1").
		WillReturnRows(noteRows(1, "user-1", "T", "C2", now.Add(-time.Hour), now))

	updated, err := db.UpdateNote(context.Background(), "user-1", 1, nil, &newContent)
	require.NoError(t, err)
	assert.Equal(t, "T", updated.Title, "The omitted title should keep its prior value")
	assert.Equal(t, "C2", updated.Content)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNoteNotFound(t *testing.T) {
	db, mock := newMockedDB(t)

	newTitle := "T2"
	mock.ExpectQuery(`UPDATE notes`).
		WithArgs("T2", nil, int64(42), "user-2").
		WillReturnError(sql.ErrNoRows)

	_, err := db.UpdateNote(context.Background(), "user-2", 42, &newTitle, nil)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNote(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectExec(`DELETE FROM notes`).
		WithArgs(int64(1), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, db.DeleteNote(context.Background(), "user-1", 1))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNoteNotFound(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectExec(`DELETE FROM notes`).
		WithArgs(int64(1), "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.DeleteNote(context.Background(), "user-2", 1)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectPing()

	assert.NoError(t, db.Ping(context.Background()))
}

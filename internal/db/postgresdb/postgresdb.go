// Package postgresdb provides a PostgreSQL-based implementation of the storage
// interface for persisting users and their notes. Every note query carries the
// owner's user ID in its predicate, so cross-user access is impossible at the
// statement level rather than checked afterwards.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/notes/internal/models"
	"github.com/patric-chuzhbe/notes/internal/note"
	"github.com/patric-chuzhbe/notes/internal/user"
)

// SQLSTATE for a unique constraint violation.
const uniqueViolationCode = "23505"

const noteColumns = `id, user_id, title, content, created_at, updated_at`

// PostgresDB is a PostgreSQL-backed implementation of the notes storage.
// All operations are single parameterized statements executed on a pooled
// database/sql connection.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf("error while `goose.Up()` calling: %w", err)
	}

	return result, nil
}

// CreateUser inserts a new user record. When the email is already present
// (the unique index is on the lowercase value) it returns
// models.ErrEmailAlreadyTaken instead of a generic error.
func (db *PostgresDB) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	row := db.database.QueryRowContext(
		ctx,
		`INSERT INTO users (email, password_hash)
			VALUES ($1, $2)
			RETURNING id, email, created_at`,
		email,
		passwordHash,
	)

	usr := &user.User{PasswordHash: passwordHash}
	err := row.Scan(&usr.ID, &usr.Email, &usr.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, models.ErrEmailAlreadyTaken
		}
		return nil, err
	}

	return usr, nil
}

// FindUserByEmail fetches a user by the normalized (lowercase) email.
// The boolean result reports whether the user exists.
func (db *PostgresDB) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	)

	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Email, &usr.PasswordHash, &usr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return usr, true, nil
}

// ListNotes retrieves all notes owned by the given user,
// most recently updated first.
func (db *PostgresDB) ListNotes(ctx context.Context, userID string) ([]note.Note, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT `+noteColumns+`
			FROM notes
			WHERE user_id = $1
			ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []note.Note{}
	for rows.Next() {
		var n note.Note
		err = rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, err
		}

		result = append(result, n)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetNote returns the note only if it exists and is owned by userID;
// otherwise models.ErrNoteNotFound. A foreign note and a missing note are
// deliberately indistinguishable.
func (db *PostgresDB) GetNote(ctx context.Context, userID string, noteID int64) (*note.Note, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`,
		noteID,
		userID,
	)

	return scanNote(row)
}

// CreateNote inserts a note for the given owner. The database assigns the id
// and both timestamps; created_at and updated_at come from the same statement
// clock, so they start equal.
func (db *PostgresDB) CreateNote(ctx context.Context, userID, title, content string) (*note.Note, error) {
	row := db.database.QueryRowContext(
		ctx,
		`INSERT INTO notes (user_id, title, content)
			VALUES ($1, $2, $3)
			RETURNING `+noteColumns,
		userID,
		title,
		content,
	)

	return scanNote(row)
}

// UpdateNote overwrites only the non-nil fields and refreshes updated_at.
// When no row matches the (id, owner) pair it returns models.ErrNoteNotFound.
func (db *PostgresDB) UpdateNote(
	ctx context.Context,
	userID string,
	noteID int64,
	title *string,
	content *string,
) (*note.Note, error) {
	row := db.database.QueryRowContext(
		ctx,
		`UPDATE notes
			SET title = COALESCE($1, title),
				content = COALESCE($2, content),
				updated_at = now()
			WHERE id = $3 AND user_id = $4
			RETURNING `+noteColumns,
		title,
		content,
		noteID,
		userID,
	)

	return scanNote(row)
}

// DeleteNote removes the note only if it is owned by userID. When no matching
// row was removed it returns models.ErrNoteNotFound.
func (db *PostgresDB) DeleteNote(ctx context.Context, userID string, noteID int64) error {
	result, err := db.database.ExecContext(
		ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
		noteID,
		userID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNoteNotFound
	}

	return nil
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	err := db.database.Close()
	if err != nil {
		return err
	}

	return nil
}

func scanNote(row *sql.Row) (*note.Note, error) {
	n := &note.Note{}
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNoteNotFound
		}
		return nil, err
	}

	return n, nil
}

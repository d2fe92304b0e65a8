// Package service contains the business core: registration and login
// composing the credential storage with the token issuer, and the
// ownership-scoped note operations.
package service

import (
	"context"
	"strings"

	"github.com/thoas/go-funk"
	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/notes/internal/models"
	"github.com/patric-chuzhbe/notes/internal/note"
	"github.com/patric-chuzhbe/notes/internal/user"
)

const bcryptMaxPasswordLen = 72

type credentialsKeeper interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error)

	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
}

type notesKeeper interface {
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
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	credentialsKeeper
	notesKeeper
	pinger
}

type tokenIssuer interface {
	IssueToken(usr *user.User) (string, error)
}

// Service implements the application operations on top of a storage backend
// and a token issuer.
type Service struct {
	db         storage
	tokens     tokenIssuer
	bcryptCost int
}

// New constructs a Service. bcryptCost is the work factor for password
// hashing; the default configuration uses 12.
func New(db storage, tokens tokenIssuer, bcryptCost int) *Service {
	return &Service{
		db:         db,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account for the given credentials and signs the new
// user in. The email is normalized to lowercase before storage, the password
// is bcrypt-hashed and the plaintext is never stored or logged. A duplicate
// email yields models.ErrEmailAlreadyTaken.
func (s *Service) Register(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	normalizedEmail := normalizeEmail(email)

	passwordHash, err := bcrypt.GenerateFromPassword(passwordBytes(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	usr, err := s.db.CreateUser(ctx, normalizedEmail, string(passwordHash))
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(usr)
}

// Login verifies the credentials and issues a token. An unknown email and a
// wrong password both yield the same models.ErrInvalidCredentials, so account
// existence cannot be probed through the login endpoint.
func (s *Service) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	usr, found, err := s.db.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), passwordBytes(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.buildAuthResponse(usr)
}

// ListNotes returns all notes owned by userID, most recently updated first.
func (s *Service) ListNotes(ctx context.Context, userID string) (*models.NotesListResponse, error) {
	notes, err := s.db.ListNotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.NotesListResponse{
		Notes: funk.Map(notes, noteToResponse).([]models.NoteResponse),
	}, nil
}

// GetNote returns the note only when userID owns it.
func (s *Service) GetNote(ctx context.Context, userID string, noteID int64) (*models.NoteEnvelope, error) {
	n, err := s.db.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	return &models.NoteEnvelope{Note: noteToResponse(*n)}, nil
}

// CreateNote stores a new note owned by userID. Title and content default to
// the empty string; the storage assigns the id and both timestamps.
func (s *Service) CreateNote(
	ctx context.Context,
	userID string,
	request models.NoteCreateRequest,
) (*models.NoteEnvelope, error) {
	n, err := s.db.CreateNote(ctx, userID, request.Title, request.Content)
	if err != nil {
		return nil, err
	}

	return &models.NoteEnvelope{Note: noteToResponse(*n)}, nil
}

// UpdateNote applies a patch to the note: only the supplied fields are
// overwritten. A patch with neither field yields models.ErrNothingToUpdate
// without touching the storage.
func (s *Service) UpdateNote(
	ctx context.Context,
	userID string,
	noteID int64,
	request models.NoteUpdateRequest,
) (*models.NoteEnvelope, error) {
	if request.Title == nil && request.Content == nil {
		return nil, models.ErrNothingToUpdate
	}

	n, err := s.db.UpdateNote(ctx, userID, noteID, request.Title, request.Content)
	if err != nil {
		return nil, err
	}

	return &models.NoteEnvelope{Note: noteToResponse(*n)}, nil
}

// DeleteNote removes the note only when userID owns it.
func (s *Service) DeleteNote(ctx context.Context, userID string, noteID int64) error {
	return s.db.DeleteNote(ctx, userID, noteID)
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) buildAuthResponse(usr *user.User) (*models.AuthResponse, error) {
	token, err := s.tokens.IssueToken(usr)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User: models.UserResponse{
			ID:    usr.ID,
			Email: usr.Email,
		},
	}, nil
}

// bcrypt only keys on the first 72 bytes and rejects longer inputs,
// so passwords above that length are truncated before hashing and
// comparison. Both paths must truncate identically or login breaks
// for long passwords.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxPasswordLen {
		b = b[:bcryptMaxPasswordLen]
	}

	return b
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func noteToResponse(n note.Note) models.NoteResponse {
	return models.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

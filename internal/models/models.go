package models

import (
	"errors"
	"time"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=200"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResponse is returned by both registration and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NoteCreateRequest is the body of POST /api/notes.
// Both fields are optional and default to the empty string.
type NoteCreateRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"max=20000"`
}

// NoteUpdateRequest is the body of PATCH /api/notes/{noteID}.
// Nil fields keep their previous values; at least one field must be set.
type NoteUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content" validate:"omitempty,max=20000"`
}

// NoteResponse is the public projection of a note.
type NoteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteEnvelope wraps a single note the way the API returns it.
type NoteEnvelope struct {
	Note NoteResponse `json:"note"`
}

// NotesListResponse wraps the list of a user's notes,
// ordered by update time descending.
type NotesListResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// ErrEmailAlreadyTaken is returned when registering an email that already exists.
var ErrEmailAlreadyTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned on any login failure. It deliberately does
// not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken covers every token verification failure: malformed,
// expired, or badly signed.
var ErrInvalidToken = errors.New("invalid token")

// ErrNoteNotFound is returned when no note matches the (id, owner) pair,
// whether the note is absent or owned by someone else.
var ErrNoteNotFound = errors.New("note not found")

// ErrNothingToUpdate is returned by a patch that supplies neither field.
var ErrNothingToUpdate = errors.New("provide at least one field to update")

// Package mockstorage provides a testify-based mock implementation
// of the storage interface used by the service and router packages.
// It is used for unit testing business logic by simulating storage behavior.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/notes/internal/note"
	"github.com/patric-chuzhbe/notes/internal/user"
)

// StorageMock is a testify mock that implements the full storage contract.
//
// Use it in service tests to simulate database behavior.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks user creation.
func (m *StorageMock) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	args := m.Called(ctx, email, passwordHash)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// FindUserByEmail mocks the email lookup.
func (m *StorageMock) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// ListNotes mocks listing the user's notes.
func (m *StorageMock) ListNotes(ctx context.Context, userID string) ([]note.Note, error) {
	args := m.Called(ctx, userID)
	notes, _ := args.Get(0).([]note.Note)
	return notes, args.Error(1)
}

// GetNote mocks the ownership-scoped note lookup.
func (m *StorageMock) GetNote(ctx context.Context, userID string, noteID int64) (*note.Note, error) {
	args := m.Called(ctx, userID, noteID)
	n, _ := args.Get(0).(*note.Note)
	return n, args.Error(1)
}

// CreateNote mocks note creation.
func (m *StorageMock) CreateNote(ctx context.Context, userID, title, content string) (*note.Note, error) {
	args := m.Called(ctx, userID, title, content)
	n, _ := args.Get(0).(*note.Note)
	return n, args.Error(1)
}

// UpdateNote mocks the patch-style note update.
func (m *StorageMock) UpdateNote(
	ctx context.Context,
	userID string,
	noteID int64,
	title *string,
	content *string,
) (*note.Note, error) {
	args := m.Called(ctx, userID, noteID, title, content)
	n, _ := args.Get(0).(*note.Note)
	return n, args.Error(1)
}

// DeleteNote mocks the ownership-scoped note removal.
func (m *StorageMock) DeleteNote(ctx context.Context, userID string, noteID int64) error {
	args := m.Called(ctx, userID, noteID)
	return args.Error(0)
}

// Ping mocks the health check of the storage.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the storage resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

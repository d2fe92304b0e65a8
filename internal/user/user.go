// Package user defines the user model used throughout the application,
// particularly for authentication and note ownership.
package user

import "time"

// User represents a registered account.
// The password hash is a bcrypt digest and never leaves the storage and service layers.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	// Email is the login identifier, stored in lowercase form.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is when the account was registered.
	CreatedAt time.Time
}

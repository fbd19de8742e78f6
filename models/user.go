package models

import (
	"strings"
	"time"
)

// Identity is the public view of an account. It is what the server sends
// back on successful login/register/resume and what the client keeps as the
// authenticated user of a session.
type Identity struct {
	// UserID is the server-assigned account identifier.
	UserID int64 `json:"id"`

	// Username is the unique display handle of the account.
	Username string `json:"username"`

	// Email is the unique e-mail address of the account.
	Email string `json:"email"`
}

// User represents an account entity used for authentication.
// PasswordHash must never leave the server.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"-"`

	// Username is the unique login handle.
	Username string `json:"username"`

	// Email is the unique e-mail address; it can be used instead of the
	// username to log in.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Identity returns the public part of the user record.
func (u User) Identity() Identity {
	return Identity{UserID: u.UserID, Username: u.Username, Email: u.Email}
}

// IsEmailIdentifier reports whether identifier should be treated as an
// e-mail address rather than a username.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}

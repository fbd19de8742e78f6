package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameTaken is returned when a new account collides with an
	// existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken is returned when a new account collides with an existing
	// e-mail address.
	ErrEmailTaken = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrSessionNotFound is returned when a session id is unknown or has
	// expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrChatNotFound is returned when a chat id matches no chat.
	ErrChatNotFound = errors.New("chat not found")

	// ErrMessageNotFound is returned when a message id matches no message.
	ErrMessageNotFound = errors.New("message not found")

	// ErrLocalSessionNotFound is returned by the client store when no session
	// was saved.
	ErrLocalSessionNotFound = errors.New("local session not found")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrUnsupportedDSN is returned when the DSN selects no known driver.
	ErrUnsupportedDSN = errors.New("unsupported database dsn")
)

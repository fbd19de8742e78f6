// Package store holds the persistence layer of whispee: the account and
// chat repositories and the session store of the server, and the local
// session store of the client.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/whispee/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with UserID and CreatedAt set.
	// A username or e-mail collision yields [ErrUsernameTaken] or
	// [ErrEmailTaken].
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByUsername returns [ErrNoUserWasFound] when nothing matches.
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// FindUserByEmail returns [ErrNoUserWasFound] when nothing matches.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}

// ChatRepository persists chats and their messages.
type ChatRepository interface {
	// ListChats returns every chat ordered by id.
	ListChats(ctx context.Context) ([]models.Chat, error)

	// GetChat returns [ErrChatNotFound] for an unknown id.
	GetChat(ctx context.Context, chatID int64) (models.Chat, error)

	// ListMessages returns the latest limit messages of a chat, oldest
	// first, with the username of each author.
	ListMessages(ctx context.Context, chatID int64, limit uint64) ([]models.Message, error)

	// CreateMessage inserts msg and returns it with MessageID and CreatedAt
	// set.
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)

	// GetMessage returns [ErrMessageNotFound] for an unknown id.
	GetMessage(ctx context.Context, messageID int64) (models.Message, error)

	// DeleteMessage returns [ErrMessageNotFound] when nothing was removed.
	DeleteMessage(ctx context.Context, messageID int64) error
}

// SessionStore keeps issued sessions on the server.
type SessionStore interface {
	// SaveSession stores session until its ExpiresAt.
	SaveSession(ctx context.Context, session models.Session) error

	// GetSession returns [ErrSessionNotFound] for unknown or expired ids.
	GetSession(ctx context.Context, sessionID string) (models.Session, error)

	// DeleteSession removes a session. Unknown ids are not an error.
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteExpired purges sessions that expired before now and reports how
	// many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// LocalSessionStore keeps the last session token of the client between
// runs.
type LocalSessionStore interface {
	// SaveLocalSession replaces the stored session.
	SaveLocalSession(ctx context.Context, session models.LocalSession) error

	// LoadLocalSession returns [ErrLocalSessionNotFound] when nothing is
	// stored.
	LoadLocalSession(ctx context.Context) (models.LocalSession, error)

	// ClearLocalSession forgets the stored session.
	ClearLocalSession(ctx context.Context) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

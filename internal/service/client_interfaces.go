package service

import (
	"context"

	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/models"
)

// ClientSession is the part of [session.Session] the client services drive.
type ClientSession interface {
	State() models.SessionState

	Login(ctx context.Context, creds models.LoginCredentials) (*session.PendingOperation, error)
	Register(ctx context.Context, creds models.RegisterCredentials) (*session.PendingOperation, error)
	Resume(ctx context.Context, sessionID string) (*session.PendingOperation, error)
	Lookup(ctx context.Context, identifier string) (*session.PendingOperation, error)

	LoadChats(ctx context.Context) (*session.PendingOperation, error)
	OpenChat(ctx context.Context, chatID int64) (*session.PendingOperation, error)
	SendMessage(ctx context.Context, chatID int64, content string) (*session.PendingOperation, error)
	DeleteMessage(ctx context.Context, messageID int64) (*session.PendingOperation, error)

	Acknowledge(ctx context.Context) error
	Logout(ctx context.Context) error
}

// ClientAuthService turns UI intents into session operations and remembers
// the session token between runs.
//
// Login, Register, ResumeSaved and Lookup return as soon as the command is
// sent. Await blocks until the reply, timeout or cancellation and keeps the
// local token in line with the outcome.
type ClientAuthService interface {
	// Login validates creds and submits a login.
	Login(ctx context.Context, creds models.LoginCredentials) (*session.PendingOperation, error)

	// Register validates creds and submits a registration.
	Register(ctx context.Context, creds models.RegisterCredentials) (*session.PendingOperation, error)

	// ResumeSaved submits a resume for the stored token. It returns
	// ErrNoSavedSession when nothing usable is stored.
	ResumeSaved(ctx context.Context) (*session.PendingOperation, error)

	// Lookup validates identifier and asks whether an account exists.
	Lookup(ctx context.Context, identifier string) (*session.PendingOperation, error)

	// Await waits for op to end and returns its outcome.
	Await(ctx context.Context, op *session.PendingOperation) (session.Outcome, error)

	// Acknowledge clears a failed attempt so the forms can be used again.
	Acknowledge(ctx context.Context) error

	// Logout ends the session and forgets the stored token.
	Logout(ctx context.Context) error
}

// ClientChatService reads and writes the chats of the signed-in user. Every
// call waits for the server reply; a rejected or unanswered request yields
// an error wrapping [ErrChatRequestFailed] with the reason.
type ClientChatService interface {
	LoadChats(ctx context.Context) ([]models.Chat, error)

	// OpenChat loads a chat with its latest messages. Messages pushed for it
	// afterwards reach the chat listener of the session.
	OpenChat(ctx context.Context, chatID int64) (models.OpenedChat, error)

	// Send validates msg and returns it as stored by the server.
	Send(ctx context.Context, msg models.OutgoingMessage) (models.Message, error)

	// Delete removes a message written by the user.
	Delete(ctx context.Context, messageID int64) error
}

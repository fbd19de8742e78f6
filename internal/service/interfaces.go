// Package service holds the business logic of the whispee server and client.
//
// Server side, [AuthService] answers the session protocol commands: it
// registers and authenticates accounts, issues, resumes and revokes session
// tokens and looks identifiers up. [ChatService] keeps the chat rooms.
// Client side, [ClientAuthService] drives a session on behalf of the terminal
// UI and keeps its token between runs.
package service

import (
	"context"

	"github.com/MKhiriev/whispee/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService implements the server half of the session protocol.
type AuthService interface {
	// Register creates an account and opens a session for it.
	Register(ctx context.Context, creds models.RegisterCredentials) (models.Authentication, error)

	// Login checks the credentials and opens a session. An identifier with
	// "@" is matched against e-mails, anything else against usernames.
	Login(ctx context.Context, creds models.LoginCredentials) (models.Authentication, error)

	// Resume validates a session token issued earlier and returns the
	// account it belongs to.
	Resume(ctx context.Context, creds models.SessionCredentials) (models.Authentication, error)

	// Lookup reports the account matching identifier, or nil when there is
	// none.
	Lookup(ctx context.Context, query models.IdentifierQuery) (*models.Identity, error)

	// Logout revokes a session. Unknown or invalid tokens are ignored.
	Logout(ctx context.Context, creds models.SessionCredentials) error
}

// ChatService serves the chat commands of authenticated connections.
type ChatService interface {
	// ListChats returns every chat.
	ListChats(ctx context.Context) ([]models.Chat, error)

	// OpenChat returns a chat with its latest messages, oldest first.
	OpenChat(ctx context.Context, chatID int64) (models.OpenedChat, error)

	// SendMessage stores msg on behalf of author.
	SendMessage(ctx context.Context, author models.Identity, msg models.OutgoingMessage) (models.Message, error)

	// DeleteMessage removes a message written by author and returns what
	// was removed. Messages of other users yield ErrNotMessageAuthor.
	DeleteMessage(ctx context.Context, author models.Identity, ref models.MessageRef) (models.Message, error)
}

// AppInfoService exposes the server build metadata.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.AppBuildInfo
}

package models

import "time"

// OperationKind names a request/response exchange that the client may have
// in flight. At most one operation of each kind is outstanding at a time.
type OperationKind int

const (
	// OperationLogin authenticates with an identifier and a password.
	OperationLogin OperationKind = iota + 1
	// OperationRegister creates an account and authenticates with it.
	OperationRegister
	// OperationResume re-attaches to a session issued earlier.
	OperationResume
	// OperationLookup checks whether an identifier belongs to an account.
	// It never changes the authentication phase.
	OperationLookup
	// OperationLoadChats lists the chats.
	OperationLoadChats
	// OperationOpenChat loads one chat with its messages and makes it the
	// chat whose changes the server pushes.
	OperationOpenChat
	// OperationSendMessage writes a message to a chat.
	OperationSendMessage
	// OperationDeleteMessage removes a message written by the user.
	OperationDeleteMessage
)

// String implements fmt.Stringer.
func (k OperationKind) String() string {
	switch k {
	case OperationLogin:
		return "login"
	case OperationRegister:
		return "register"
	case OperationResume:
		return "resume"
	case OperationLookup:
		return "lookup"
	case OperationLoadChats:
		return "load_chats"
	case OperationOpenChat:
		return "open_chat"
	case OperationSendMessage:
		return "send_message"
	case OperationDeleteMessage:
		return "delete_message"
	default:
		return "unknown"
	}
}

// IsIdentity reports whether operations of this kind drive the
// authentication phase of a session.
func (k OperationKind) IsIdentity() bool {
	return k == OperationLogin || k == OperationRegister || k == OperationResume
}

// IsChat reports whether operations of this kind need an authenticated
// session.
func (k OperationKind) IsChat() bool {
	switch k {
	case OperationLoadChats, OperationOpenChat, OperationSendMessage, OperationDeleteMessage:
		return true
	}
	return false
}

// Phase is the authentication lifecycle phase of a client session.
type Phase int

const (
	// PhaseAnonymous means no user is attached and nothing is in flight.
	PhaseAnonymous Phase = iota
	// PhaseSubmitting means an identity operation is waiting for the server.
	PhaseSubmitting
	// PhaseAuthenticated means a user is attached to the session.
	PhaseAuthenticated
	// PhaseFailed means the last identity operation failed and the UI has
	// not acknowledged it yet.
	PhaseFailed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseSubmitting:
		return "submitting"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SessionState is a snapshot of the client session. Only the fields that
// belong to Phase are set:
//   - PhaseSubmitting: Kind
//   - PhaseAuthenticated: Kind (how the user got in), User, SessionID
//   - PhaseFailed: Kind, Reason
type SessionState struct {
	Phase     Phase
	Kind      OperationKind
	User      *Identity
	SessionID string
	Reason    string
}

// Session is the server-side record of an authenticated websocket session.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity returns the public identity bound to the session.
func (s Session) Identity() Identity {
	return Identity{UserID: s.UserID, Username: s.Username, Email: s.Email}
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// LocalSession is the session token the client keeps between runs.
type LocalSession struct {
	SessionID string
	Username  string
	SavedAt   time.Time
}

// Authentication is the server's answer to a successful register, login or
// resume.
type Authentication struct {
	User Identity

	// SessionID is the signed session token handed to the client.
	SessionID string

	ExpiresAt time.Time
}

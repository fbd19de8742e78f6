package models

import "time"

// MaxMessageLength bounds the content of a chat message, in runes.
const MaxMessageLength = 2000

// Chat is a named room every authenticated user can read and write to.
type Chat struct {
	ChatID    int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Chat model.
func (c Chat) TableName() string {
	return "chats"
}

// Message is one chat message together with the public name of its author.
type Message struct {
	MessageID int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Message model.
func (m Message) TableName() string {
	return "messages"
}

// ChatQuery selects the chat to open.
type ChatQuery struct {
	ChatID int64 `json:"chat_id"`
}

// ChatsQuery is the empty payload of a chat list request.
type ChatsQuery struct{}

// OutgoingMessage is the payload of a message the user writes to a chat.
type OutgoingMessage struct {
	ChatID  int64  `json:"chat_id"`
	Content string `json:"content"`
}

// MessageRef names a message to delete.
type MessageRef struct {
	MessageID int64 `json:"message_id"`
}

// OpenedChat is a chat together with its latest messages, oldest first.
type OpenedChat struct {
	Chat     Chat
	Messages []Message
}

// ChatEventKind names a change pushed by the server to the readers of a
// chat.
type ChatEventKind int

const (
	// ChatMessageSent means another user wrote to the opened chat.
	ChatMessageSent ChatEventKind = iota + 1
	// ChatMessageDeleted means a message of the opened chat was removed.
	ChatMessageDeleted
)

// String implements fmt.Stringer.
func (k ChatEventKind) String() string {
	switch k {
	case ChatMessageSent:
		return "message_sent"
	case ChatMessageDeleted:
		return "message_deleted"
	default:
		return "unknown"
	}
}

// ChatEvent is a change of the opened chat that no request of this client
// asked for. Message is set for ChatMessageSent, MessageID for both kinds.
type ChatEvent struct {
	Kind      ChatEventKind
	ChatID    int64
	MessageID int64
	Message   *Message
}

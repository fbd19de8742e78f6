package protocol

import "github.com/MKhiriev/whispee/models"

// Event discriminators sent by the server.
const (
	EventNameLoginResult      = "login_result"
	EventNameRegisterResult   = "register_result"
	EventNameSessionResult    = "session_result"
	EventNameIdentifierResult = "identifier_result"
	EventNameChatsResult      = "chats_result"
	EventNameChatResult       = "chat_result"
	EventNameMessageResult    = "message_result"
	EventNameDeleteResult     = "delete_result"

	// Pushed to the readers of a chat without a request.
	EventNameMessageSent    = "chat_message_sent"
	EventNameMessageDeleted = "chat_message_deleted"
)

// EventType identifies an inbound server message.
type EventType int

const (
	EventLoginResult EventType = iota + 1
	EventRegisterResult
	EventSessionResult
	EventIdentifierResult
	EventChatsResult
	EventChatResult
	EventMessageResult
	EventDeleteResult
	EventMessageSent
	EventMessageDeleted
)

var eventNames = map[EventType]string{
	EventLoginResult:      EventNameLoginResult,
	EventRegisterResult:   EventNameRegisterResult,
	EventSessionResult:    EventNameSessionResult,
	EventIdentifierResult: EventNameIdentifierResult,
	EventChatsResult:      EventNameChatsResult,
	EventChatResult:       EventNameChatResult,
	EventMessageResult:    EventNameMessageResult,
	EventDeleteResult:     EventNameDeleteResult,
	EventMessageSent:      EventNameMessageSent,
	EventMessageDeleted:   EventNameMessageDeleted,
}

var eventTypes = map[string]EventType{
	EventNameLoginResult:      EventLoginResult,
	EventNameRegisterResult:   EventRegisterResult,
	EventNameSessionResult:    EventSessionResult,
	EventNameIdentifierResult: EventIdentifierResult,
	EventNameChatsResult:      EventChatsResult,
	EventNameChatResult:       EventChatResult,
	EventNameMessageResult:    EventMessageResult,
	EventNameDeleteResult:     EventDeleteResult,
	EventNameMessageSent:      EventMessageSent,
	EventNameMessageDeleted:   EventMessageDeleted,
}

// String returns the wire discriminator of the type.
func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseEventType returns the type named by a wire discriminator.
func ParseEventType(name string) (EventType, bool) {
	t, ok := eventTypes[name]
	return t, ok
}

// Operation returns the pending-operation kind an event of this type
// resolves. Pushed events resolve none and report false.
func (t EventType) Operation() (models.OperationKind, bool) {
	switch t {
	case EventLoginResult:
		return models.OperationLogin, true
	case EventRegisterResult:
		return models.OperationRegister, true
	case EventSessionResult:
		return models.OperationResume, true
	case EventIdentifierResult:
		return models.OperationLookup, true
	case EventChatsResult:
		return models.OperationLoadChats, true
	case EventChatResult:
		return models.OperationOpenChat, true
	case EventMessageResult:
		return models.OperationSendMessage, true
	case EventDeleteResult:
		return models.OperationDeleteMessage, true
	}
	return 0, false
}

// IsPushed reports whether events of this type arrive without a request.
func (t EventType) IsPushed() bool {
	return t == EventMessageSent || t == EventMessageDeleted
}

// ResultEventFor returns the event type that answers a command kind.
func ResultEventFor(kind CommandKind) (EventType, bool) {
	switch kind {
	case CommandLogin:
		return EventLoginResult, true
	case CommandRegister:
		return EventRegisterResult, true
	case CommandCheckSession:
		return EventSessionResult, true
	case CommandCheckIdentifier:
		return EventIdentifierResult, true
	case CommandLoadChats:
		return EventChatsResult, true
	case CommandLoadChat:
		return EventChatResult, true
	case CommandSendMessage:
		return EventMessageResult, true
	case CommandDeleteMessage:
		return EventDeleteResult, true
	}
	return 0, false
}

// Result is the data of every server event.
//
// For login/register/session results Success tells whether the user is now
// authenticated; User and SessionID are set on success and Reason on
// failure. Reason is an opaque, human-readable string.
//
// For identifier results Success tells whether the lookup ran; Found tells
// whether an account exists, in which case User is set.
//
// Chat results carry Chats, Chat with Messages, the stored Message or the
// deleted MessageID. Pushed events always have Success set.
type Result struct {
	Success   bool             `json:"success"`
	User      *models.Identity `json:"user,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Found     bool             `json:"found,omitempty"`

	Chats     []models.Chat    `json:"chats,omitempty"`
	Chat      *models.Chat     `json:"chat,omitempty"`
	Messages  []models.Message `json:"messages,omitempty"`
	Message   *models.Message  `json:"message,omitempty"`
	ChatID    int64            `json:"chat_id,omitempty"`
	MessageID int64            `json:"message_id,omitempty"`
}

// Event is a decoded inbound server message.
type Event struct {
	Type EventType
	// ID echoes the request id of the command being answered, if it had one.
	ID     string
	Result Result
}

// Succeeded builds a successful authentication result.
func Succeeded(user models.Identity, sessionID string) Result {
	return Result{Success: true, User: &user, SessionID: sessionID}
}

// Failed builds a failed result carrying reason.
func Failed(reason string) Result {
	return Result{Success: false, Reason: reason}
}

// LookupResult builds an identifier_result payload.
func LookupResult(user *models.Identity) Result {
	return Result{Success: true, Found: user != nil, User: user}
}

// ChatsLoaded builds a chats_result payload.
func ChatsLoaded(chats []models.Chat) Result {
	return Result{Success: true, Chats: chats}
}

// ChatOpened builds a chat_result payload.
func ChatOpened(opened models.OpenedChat) Result {
	return Result{Success: true, Chat: &opened.Chat, Messages: opened.Messages}
}

// MessageStored builds a message_result payload, also used as the data of
// chat_message_sent.
func MessageStored(msg models.Message) Result {
	return Result{Success: true, Message: &msg, ChatID: msg.ChatID, MessageID: msg.MessageID}
}

// MessageRemoved builds a delete_result payload, also used as the data of
// chat_message_deleted.
func MessageRemoved(msg models.Message) Result {
	return Result{Success: true, ChatID: msg.ChatID, MessageID: msg.MessageID}
}

func (e Event) validate() error {
	name := e.Type.String()
	r := e.Result

	switch e.Type {
	case EventLoginResult, EventRegisterResult, EventSessionResult:
		if r.Success && r.User == nil {
			return missingField(name, "user")
		}
	case EventIdentifierResult:
		if r.Found && r.User == nil {
			return missingField(name, "user")
		}
	case EventChatsResult:
	case EventChatResult:
		if r.Success && r.Chat == nil {
			return missingField(name, "chat")
		}
	case EventMessageResult, EventMessageSent:
		if (r.Success || e.Type.IsPushed()) && r.Message == nil {
			return missingField(name, "message")
		}
	case EventDeleteResult, EventMessageDeleted:
		if (r.Success || e.Type.IsPushed()) && r.MessageID == 0 {
			return missingField(name, "message_id")
		}
	default:
		return &EncodingError{Message: e.Type.String(), Err: ErrUnknownType}
	}
	return nil
}

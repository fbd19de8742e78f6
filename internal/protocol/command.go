package protocol

import "github.com/MKhiriev/whispee/models"

// Command discriminators sent by the client.
const (
	CommandNameLogin           = "login_user"
	CommandNameRegister        = "register_user"
	CommandNameCheckSession    = "check_session"
	CommandNameCheckIdentifier = "check_identifier"
	CommandNameLogout          = "logout_user"
	CommandNameLoadChats       = "load_chats"
	CommandNameLoadChat        = "load_chat"
	CommandNameSendMessage     = "send_chat_message"
	CommandNameDeleteMessage   = "delete_chat_message"
)

// CommandKind identifies an outgoing client intent.
type CommandKind int

const (
	CommandLogin CommandKind = iota + 1
	CommandRegister
	CommandCheckSession
	CommandCheckIdentifier
	CommandLogout
	CommandLoadChats
	CommandLoadChat
	CommandSendMessage
	CommandDeleteMessage
)

var commandNames = map[CommandKind]string{
	CommandLogin:           CommandNameLogin,
	CommandRegister:        CommandNameRegister,
	CommandCheckSession:    CommandNameCheckSession,
	CommandCheckIdentifier: CommandNameCheckIdentifier,
	CommandLogout:          CommandNameLogout,
	CommandLoadChats:       CommandNameLoadChats,
	CommandLoadChat:        CommandNameLoadChat,
	CommandSendMessage:     CommandNameSendMessage,
	CommandDeleteMessage:   CommandNameDeleteMessage,
}

var commandKinds = map[string]CommandKind{
	CommandNameLogin:           CommandLogin,
	CommandNameRegister:        CommandRegister,
	CommandNameCheckSession:    CommandCheckSession,
	CommandNameCheckIdentifier: CommandCheckIdentifier,
	CommandNameLogout:          CommandLogout,
	CommandNameLoadChats:       CommandLoadChats,
	CommandNameLoadChat:        CommandLoadChat,
	CommandNameSendMessage:     CommandSendMessage,
	CommandNameDeleteMessage:   CommandDeleteMessage,
}

// String returns the wire discriminator of the kind.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseCommandKind returns the kind named by a wire discriminator.
func ParseCommandKind(name string) (CommandKind, bool) {
	k, ok := commandKinds[name]
	return k, ok
}

// Operation returns the pending-operation kind a command of this kind opens.
// Logout is fire-and-forget and opens none.
func (k CommandKind) Operation() (models.OperationKind, bool) {
	switch k {
	case CommandLogin:
		return models.OperationLogin, true
	case CommandRegister:
		return models.OperationRegister, true
	case CommandCheckSession:
		return models.OperationResume, true
	case CommandCheckIdentifier:
		return models.OperationLookup, true
	case CommandLoadChats:
		return models.OperationLoadChats, true
	case CommandLoadChat:
		return models.OperationOpenChat, true
	case CommandSendMessage:
		return models.OperationSendMessage, true
	case CommandDeleteMessage:
		return models.OperationDeleteMessage, true
	}
	return 0, false
}

// IsChat reports whether the command needs a signed-in connection.
func (k CommandKind) IsChat() bool {
	op, ok := k.Operation()
	return ok && op.IsChat()
}

// Command is an outgoing client intent. Exactly one payload pointer matching
// Kind is set.
type Command struct {
	Kind CommandKind
	// ID is an optional request id echoed back by the server.
	ID string

	Login    *models.LoginCredentials
	Register *models.RegisterCredentials
	Session  *models.SessionCredentials
	Lookup   *models.IdentifierQuery
	Chat     *models.ChatQuery
	Message  *models.OutgoingMessage
	Deletion *models.MessageRef
}

// NewLoginCommand builds a login_user command.
func NewLoginCommand(creds models.LoginCredentials) Command {
	return Command{Kind: CommandLogin, Login: &creds}
}

// NewRegisterCommand builds a register_user command.
func NewRegisterCommand(creds models.RegisterCredentials) Command {
	return Command{Kind: CommandRegister, Register: &creds}
}

// NewCheckSessionCommand builds a check_session command.
func NewCheckSessionCommand(sessionID string) Command {
	return Command{Kind: CommandCheckSession, Session: &models.SessionCredentials{SessionID: sessionID}}
}

// NewCheckIdentifierCommand builds a check_identifier command.
func NewCheckIdentifierCommand(identifier string) Command {
	return Command{Kind: CommandCheckIdentifier, Lookup: &models.IdentifierQuery{Identifier: identifier}}
}

// NewLogoutCommand builds a logout_user command.
func NewLogoutCommand(sessionID string) Command {
	return Command{Kind: CommandLogout, Session: &models.SessionCredentials{SessionID: sessionID}}
}

// NewLoadChatsCommand builds a load_chats command.
func NewLoadChatsCommand() Command {
	return Command{Kind: CommandLoadChats}
}

// NewLoadChatCommand builds a load_chat command.
func NewLoadChatCommand(chatID int64) Command {
	return Command{Kind: CommandLoadChat, Chat: &models.ChatQuery{ChatID: chatID}}
}

// NewSendMessageCommand builds a send_chat_message command.
func NewSendMessageCommand(msg models.OutgoingMessage) Command {
	return Command{Kind: CommandSendMessage, Message: &msg}
}

// NewDeleteMessageCommand builds a delete_chat_message command.
func NewDeleteMessageCommand(messageID int64) Command {
	return Command{Kind: CommandDeleteMessage, Deletion: &models.MessageRef{MessageID: messageID}}
}

// WithID returns a copy of c carrying the request id.
func (c Command) WithID(id string) Command {
	c.ID = id
	return c
}

// payload returns the data value for the command, checking that the
// required fields are present.
func (c Command) payload() (any, error) {
	name := c.Kind.String()

	switch c.Kind {
	case CommandLogin:
		if c.Login == nil {
			return nil, missingField(name, "data")
		}
		if c.Login.Identifier == "" {
			return nil, missingField(name, "identifier")
		}
		if c.Login.Password == "" {
			return nil, missingField(name, "password")
		}
		return c.Login, nil

	case CommandRegister:
		if c.Register == nil {
			return nil, missingField(name, "data")
		}
		if c.Register.Username == "" {
			return nil, missingField(name, "username")
		}
		if c.Register.Email == "" {
			return nil, missingField(name, "email")
		}
		if c.Register.Password == "" {
			return nil, missingField(name, "password")
		}
		return c.Register, nil

	case CommandCheckSession, CommandLogout:
		if c.Session == nil {
			return nil, missingField(name, "data")
		}
		if c.Session.SessionID == "" {
			return nil, missingField(name, "session_id")
		}
		return c.Session, nil

	case CommandCheckIdentifier:
		if c.Lookup == nil {
			return nil, missingField(name, "data")
		}
		if c.Lookup.Identifier == "" {
			return nil, missingField(name, "identifier")
		}
		return c.Lookup, nil

	case CommandLoadChats:
		return models.ChatsQuery{}, nil

	case CommandLoadChat:
		if c.Chat == nil {
			return nil, missingField(name, "data")
		}
		if c.Chat.ChatID <= 0 {
			return nil, missingField(name, "chat_id")
		}
		return c.Chat, nil

	case CommandSendMessage:
		if c.Message == nil {
			return nil, missingField(name, "data")
		}
		if c.Message.ChatID <= 0 {
			return nil, missingField(name, "chat_id")
		}
		if c.Message.Content == "" {
			return nil, missingField(name, "content")
		}
		return c.Message, nil

	case CommandDeleteMessage:
		if c.Deletion == nil {
			return nil, missingField(name, "data")
		}
		if c.Deletion.MessageID <= 0 {
			return nil, missingField(name, "message_id")
		}
		return c.Deletion, nil
	}

	return nil, &EncodingError{Message: name, Err: ErrUnknownType}
}

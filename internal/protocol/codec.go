package protocol

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/MKhiriev/whispee/models"
)

// Envelope is the wire representation of every frame. Client frames set
// Command, server frames set Type.
type Envelope struct {
	Command string          `json:"command,omitempty"`
	Type    string          `json:"type,omitempty"`
	ID      string          `json:"id,omitempty"`
	Data    json.RawMessage `json:"data"`
}

var (
	errNoDiscriminator = errors.New("missing discriminator")
	errNoData          = errors.New("missing data")
)

// EncodeCommand serialises c into its envelope. The result is deterministic
// for equal commands. It fails with an [*EncodingError] if the kind is
// unknown or a required payload field is empty.
func EncodeCommand(c Command) ([]byte, error) {
	payload, err := c.payload()
	if err != nil {
		return nil, err
	}

	return encodeEnvelope(Envelope{Command: c.Kind.String(), ID: c.ID}, payload)
}

// DecodeEvent parses a server frame. Unknown discriminators yield a
// [*DecodeError] with [ReasonUnknownType]; anything else that does not fit
// yields [ReasonMalformed]. When the type is known the error also carries
// the envelope id, see [DecodeError.Recognised].
func DecodeEvent(data []byte) (Event, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return Event{}, err
	}
	if env.Type == "" {
		return Event{}, malformed(env.Command, errNoDiscriminator)
	}

	eventType, ok := eventTypes[env.Type]
	if !ok {
		return Event{}, &DecodeError{Reason: ReasonUnknownType, Discriminator: env.Type, Err: ErrUnknownType}
	}

	var result Result
	if err = decodeData(env, &result); err != nil {
		return Event{}, invalidPayload(env, env.Type, err)
	}

	event := Event{Type: eventType, ID: env.ID, Result: result}
	if err = event.validate(); err != nil {
		return Event{}, invalidPayload(env, env.Type, err)
	}

	return event, nil
}

// DecodeCommand parses a client frame. It is the server-side counterpart of
// [EncodeCommand] and applies the same required-field checks. A known command
// with bad data yields a [*DecodeError] carrying its id, so that it can still
// be answered.
func DecodeCommand(data []byte) (Command, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return Command{}, err
	}
	if env.Command == "" {
		return Command{}, malformed(env.Type, errNoDiscriminator)
	}

	kind, ok := commandKinds[env.Command]
	if !ok {
		return Command{}, &DecodeError{Reason: ReasonUnknownType, Discriminator: env.Command, Err: ErrUnknownType}
	}

	cmd := Command{Kind: kind, ID: env.ID}
	switch kind {
	case CommandLogin:
		cmd.Login = new(models.LoginCredentials)
		err = decodeData(env, cmd.Login)
	case CommandRegister:
		cmd.Register = new(models.RegisterCredentials)
		err = decodeData(env, cmd.Register)
	case CommandCheckSession, CommandLogout:
		cmd.Session = new(models.SessionCredentials)
		err = decodeData(env, cmd.Session)
	case CommandCheckIdentifier:
		cmd.Lookup = new(models.IdentifierQuery)
		err = decodeData(env, cmd.Lookup)
	case CommandLoadChats:
		// the data of load_chats carries nothing and may be left out
	case CommandLoadChat:
		cmd.Chat = new(models.ChatQuery)
		err = decodeData(env, cmd.Chat)
	case CommandSendMessage:
		cmd.Message = new(models.OutgoingMessage)
		err = decodeData(env, cmd.Message)
	case CommandDeleteMessage:
		cmd.Deletion = new(models.MessageRef)
		err = decodeData(env, cmd.Deletion)
	}
	if err != nil {
		return Command{}, invalidPayload(env, env.Command, err)
	}

	if _, err = cmd.payload(); err != nil {
		return Command{}, invalidPayload(env, env.Command, err)
	}

	return cmd, nil
}

// EncodeEvent serialises a server event into its envelope.
func EncodeEvent(e Event) ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	return encodeEnvelope(Envelope{Type: e.Type.String(), ID: e.ID}, e.Result)
}

func encodeEnvelope(env Envelope, payload any) ([]byte, error) {
	discriminator := env.Command
	if discriminator == "" {
		discriminator = env.Type
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &EncodingError{Message: discriminator, Err: err}
	}
	env.Data = data

	out, err := json.Marshal(env)
	if err != nil {
		return nil, &EncodingError{Message: discriminator, Err: err}
	}

	return out, nil
}

func decodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, malformed("", err)
	}

	return env, nil
}

func decodeData(env Envelope, v any) error {
	raw := bytes.TrimSpace(env.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errNoData
	}

	return json.Unmarshal(raw, v)
}

package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/MKhiriev/whispee/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── EncodeCommand ─────────────────────────────────────────────────────────────

// TestEncodeCommand_Login verifies the exact login_user wire form.
func TestEncodeCommand_Login(t *testing.T) {
	out, err := EncodeCommand(NewLoginCommand(models.LoginCredentials{Identifier: "alice", Password: "secret1"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"login_user","data":{"identifier":"alice","password":"secret1"}}`, string(out))
}

// TestEncodeCommand_Register verifies the exact register_user wire form.
func TestEncodeCommand_Register(t *testing.T) {
	out, err := EncodeCommand(NewRegisterCommand(models.RegisterCredentials{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	}))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"command":"register_user","data":{"username":"alice","email":"alice@example.com","password":"secret1"}}`,
		string(out))
}

// TestEncodeCommand_CarriesID verifies that the optional request id is put
// on the envelope.
func TestEncodeCommand_CarriesID(t *testing.T) {
	out, err := EncodeCommand(NewCheckSessionCommand("sid").WithID("req-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"check_session","id":"req-1","data":{"session_id":"sid"}}`, string(out))
}

// TestEncodeCommand_Deterministic verifies that encoding the same command
// twice yields identical bytes.
func TestEncodeCommand_Deterministic(t *testing.T) {
	cmd := NewRegisterCommand(models.RegisterCredentials{Username: "bob", Email: "bob@example.com", Password: "hunter22"})

	first, err := EncodeCommand(cmd)
	require.NoError(t, err)
	second, err := EncodeCommand(cmd)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestEncodeCommand_MissingFields verifies that commands with empty
// payload fields are rejected.
func TestEncodeCommand_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		cmd   Command
		field string
	}{
		{"login without identifier", NewLoginCommand(models.LoginCredentials{Password: "secret1"}), "identifier"},
		{"login without password", NewLoginCommand(models.LoginCredentials{Identifier: "alice"}), "password"},
		{"register without username", NewRegisterCommand(models.RegisterCredentials{Email: "a@b.c", Password: "secret1"}), "username"},
		{"register without email", NewRegisterCommand(models.RegisterCredentials{Username: "alice", Password: "secret1"}), "email"},
		{"register without password", NewRegisterCommand(models.RegisterCredentials{Username: "alice", Email: "a@b.c"}), "password"},
		{"login with nil payload", Command{Kind: CommandLogin}, "data"},
		{"check_session without id", NewCheckSessionCommand(""), "session_id"},
		{"check_identifier without identifier", NewCheckIdentifierCommand(""), "identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := EncodeCommand(tt.cmd)
			assert.Nil(t, out)
			require.ErrorIs(t, err, ErrEncoding)
			assert.ErrorIs(t, err, ErrMissingField)

			var encErr *EncodingError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, tt.field, encErr.Field)
		})
	}
}

// TestEncodeCommand_UnknownKind verifies that a zero Command is rejected.
func TestEncodeCommand_UnknownKind(t *testing.T) {
	_, err := EncodeCommand(Command{})
	require.ErrorIs(t, err, ErrEncoding)
	assert.ErrorIs(t, err, ErrUnknownType)
}

// ── DecodeEvent ───────────────────────────────────────────────────────────────

// TestDecodeEvent_LoginSuccess verifies decoding of a successful login reply.
func TestDecodeEvent_LoginSuccess(t *testing.T) {
	raw := `{"type":"login_result","data":{"success":true,"user":{"id":7,"username":"alice","email":"alice@example.com"},"session_id":"sid-1"}}`

	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, EventLoginResult, ev.Type)
	op, ok := ev.Type.Operation()
	assert.True(t, ok)
	assert.Equal(t, models.OperationLogin, op)
	assert.True(t, ev.Result.Success)
	require.NotNil(t, ev.Result.User)
	assert.Equal(t, models.Identity{UserID: 7, Username: "alice", Email: "alice@example.com"}, *ev.Result.User)
	assert.Equal(t, "sid-1", ev.Result.SessionID)
}

// TestDecodeEvent_RegisterFailure verifies that the failure reason is kept
// verbatim.
func TestDecodeEvent_RegisterFailure(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"register_result","id":"r1","data":{"success":false,"reason":"username already taken"}}`))
	require.NoError(t, err)

	assert.Equal(t, EventRegisterResult, ev.Type)
	assert.Equal(t, "r1", ev.ID)
	assert.False(t, ev.Result.Success)
	assert.Equal(t, "username already taken", ev.Result.Reason)
}

// TestDecodeEvent_IdentifierResult verifies lookup replies with and without
// a match.
func TestDecodeEvent_IdentifierResult(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"identifier_result","data":{"success":true,"found":true,"user":{"id":1,"username":"alice","email":"a@b.c"}}}`))
	require.NoError(t, err)
	assert.True(t, ev.Result.Found)
	op, _ := ev.Type.Operation()
	assert.Equal(t, models.OperationLookup, op)

	ev, err = DecodeEvent([]byte(`{"type":"identifier_result","data":{"success":true}}`))
	require.NoError(t, err)
	assert.False(t, ev.Result.Found)
	assert.Nil(t, ev.Result.User)
}

// TestDecodeEvent_UnknownType verifies that an unrecognised discriminator
// yields a droppable DecodeError instead of panicking.
func TestDecodeEvent_UnknownType(t *testing.T) {
	var (
		ev  Event
		err error
	)
	assert.NotPanics(t, func() {
		ev, err = DecodeEvent([]byte(`{"type":"chat_message_sended","data":{"content":"hi"}}`))
	})

	assert.Equal(t, Event{}, ev)
	require.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, ErrUnknownType)

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, ReasonUnknownType, decErr.Reason)
	assert.Equal(t, "chat_message_sended", decErr.Discriminator)
}

// TestDecodeEvent_Malformed verifies that garbage and wrongly shaped frames
// are reported as malformed.
func TestDecodeEvent_Malformed(t *testing.T) {
	inputs := map[string]string{
		"not json":              `not valid json {{{`,
		"empty":                 ``,
		"json array":            `[1,2,3]`,
		"no discriminator":      `{"data":{"success":true}}`,
		"missing data":          `{"type":"login_result"}`,
		"null data":             `{"type":"login_result","data":null}`,
		"data wrong shape":      `{"type":"login_result","data":"oops"}`,
		"success without user":  `{"type":"login_result","data":{"success":true}}`,
		"found without user":    `{"type":"identifier_result","data":{"success":true,"found":true}}`,
		"legacy pipe framing":   `login_succeeded|||{"session_id":"x"}`,
		"command instead of ev": `{"command":"login_user","data":{"identifier":"a","password":"b"}}`,
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() { _, err = DecodeEvent([]byte(in)) })

			require.ErrorIs(t, err, ErrDecode)
			assert.NotErrorIs(t, err, ErrUnknownType)
		})
	}
}

// TestDecodeEvent_MalformedReplyKeepsID verifies that a reply of a known
// type with bad data still names the request it answers.
func TestDecodeEvent_MalformedReplyKeepsID(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"login_result","id":"op-4","data":{"success":true}}`))

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.True(t, decErr.Recognised())
	assert.Equal(t, "op-4", decErr.ID)
	assert.Equal(t, "login_result", decErr.Discriminator)
	assert.Equal(t, ReasonMalformed, decErr.Reason)

	_, err = DecodeEvent([]byte(`{"type":"typing_started","id":"op-5","data":{}}`))
	require.True(t, errors.As(err, &decErr))
	assert.False(t, decErr.Recognised())

	_, err = DecodeEvent([]byte(`not json`))
	require.True(t, errors.As(err, &decErr))
	assert.False(t, decErr.Recognised())
}

// TestDecodeEvent_ChatEvents verifies the chat replies and the pushed
// changes.
func TestDecodeEvent_ChatEvents(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"chat_message_sent","data":{"success":true,"message":{"id":5,"chat_id":2,"user_id":7,"username":"alice","content":"hi","created_at":"2026-01-01T00:00:00Z"},"chat_id":2,"message_id":5}}`))
	require.NoError(t, err)
	assert.Equal(t, EventMessageSent, ev.Type)
	assert.True(t, ev.Type.IsPushed())
	_, resolves := ev.Type.Operation()
	assert.False(t, resolves)
	require.NotNil(t, ev.Result.Message)
	assert.Equal(t, "alice", ev.Result.Message.Username)
	assert.Equal(t, int64(2), ev.Result.ChatID)

	ev, err = DecodeEvent([]byte(`{"type":"chat_result","id":"c1","data":{"success":true,"chat":{"id":2,"title":"random"},"messages":[]}}`))
	require.NoError(t, err)
	op, _ := ev.Type.Operation()
	assert.Equal(t, models.OperationOpenChat, op)
	assert.False(t, ev.Type.IsPushed())
	assert.Equal(t, "random", ev.Result.Chat.Title)

	invalid := map[string]string{
		"sent without message":     `{"type":"chat_message_sent","data":{"success":false,"chat_id":2}}`,
		"deleted without id":       `{"type":"chat_message_deleted","data":{"chat_id":2}}`,
		"opened without chat":      `{"type":"chat_result","data":{"success":true}}`,
		"stored without message":   `{"type":"message_result","data":{"success":true}}`,
		"delete result without id": `{"type":"delete_result","data":{"success":true}}`,
	}
	for name, in := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(in))
			assert.ErrorIs(t, err, ErrDecode)
		})
	}

	// a failed reply needs no payload
	ev, err = DecodeEvent([]byte(`{"type":"message_result","data":{"success":false,"reason":"chat not found"}}`))
	require.NoError(t, err)
	assert.Equal(t, "chat not found", ev.Result.Reason)
}

// ── DecodeCommand / EncodeEvent ───────────────────────────────────────────────

// TestDecodeCommand_RoundTripsEncodeCommand verifies that the server side
// reads what the client side writes.
func TestDecodeCommand_RoundTripsEncodeCommand(t *testing.T) {
	cmds := []Command{
		NewLoginCommand(models.LoginCredentials{Identifier: "alice@example.com", Password: "secret1"}),
		NewRegisterCommand(models.RegisterCredentials{Username: "alice", Email: "alice@example.com", Password: "secret1"}),
		NewCheckSessionCommand("sid").WithID("id-1"),
		NewCheckIdentifierCommand("alice"),
		NewLogoutCommand("sid"),
		NewLoadChatsCommand().WithID("id-2"),
		NewLoadChatCommand(3),
		NewSendMessageCommand(models.OutgoingMessage{ChatID: 3, Content: "hello there"}),
		NewDeleteMessageCommand(12),
	}

	for _, cmd := range cmds {
		t.Run(cmd.Kind.String(), func(t *testing.T) {
			raw, err := EncodeCommand(cmd)
			require.NoError(t, err)

			decoded, err := DecodeCommand(raw)
			require.NoError(t, err)
			assert.Equal(t, cmd, decoded)
		})
	}
}

// TestDecodeCommand_Rejects verifies unknown and incomplete client frames.
func TestDecodeCommand_Rejects(t *testing.T) {
	_, err := DecodeCommand([]byte(`{"command":"send_voice_message","data":{"chat_id":1}}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeCommand([]byte(`{"command":"login_user","data":{"identifier":"","password":"x"}}`))
	require.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrUnknownType)

	_, err = DecodeCommand([]byte(`{"type":"login_result","data":{}}`))
	assert.ErrorIs(t, err, ErrDecode)

	// load_chats carries nothing
	cmd, err := DecodeCommand([]byte(`{"command":"load_chats","id":"l1"}`))
	require.NoError(t, err)
	assert.Equal(t, CommandLoadChats, cmd.Kind)
	assert.Equal(t, "l1", cmd.ID)
}

// TestDecodeCommand_InvalidPayloadKeepsID verifies that a known command with
// bad data can still be answered.
func TestDecodeCommand_InvalidPayloadKeepsID(t *testing.T) {
	inputs := map[string]string{
		"missing password": `{"command":"login_user","id":"r1","data":{"identifier":"alice"}}`,
		"empty content":    `{"command":"send_chat_message","id":"r1","data":{"chat_id":1,"content":""}}`,
		"no message id":    `{"command":"delete_chat_message","id":"r1","data":{}}`,
		"bad chat id":      `{"command":"load_chat","id":"r1","data":{"chat_id":"one"}}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCommand([]byte(in))

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.True(t, decErr.Recognised())
			assert.Equal(t, "r1", decErr.ID)

			_, ok := ParseCommandKind(decErr.Discriminator)
			assert.True(t, ok)
		})
	}
}

// TestEncodeEvent_WireForm verifies the exact server reply shape.
func TestEncodeEvent_WireForm(t *testing.T) {
	out, err := EncodeEvent(Event{
		Type:   EventLoginResult,
		ID:     "req-9",
		Result: Succeeded(models.Identity{UserID: 3, Username: "carol", Email: "carol@example.com"}, "sid-3"),
	})
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(out, &env))
	assert.Equal(t, "login_result", env["type"])
	assert.Equal(t, "req-9", env["id"])
	assert.NotContains(t, env, "command")

	ev, err := DecodeEvent(out)
	require.NoError(t, err)
	assert.Equal(t, "carol", ev.Result.User.Username)
}

// TestEncodeEvent_RejectsInvalid verifies that a success without a user is
// never written to the wire.
func TestEncodeEvent_RejectsInvalid(t *testing.T) {
	_, err := EncodeEvent(Event{Type: EventRegisterResult, Result: Result{Success: true}})
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = EncodeEvent(Event{Type: EventType(99)})
	assert.ErrorIs(t, err, ErrEncoding)
}

// TestResultEventFor verifies the command → reply mapping.
func TestResultEventFor(t *testing.T) {
	ev, ok := ResultEventFor(CommandLogin)
	assert.True(t, ok)
	assert.Equal(t, EventLoginResult, ev)

	_, ok = ResultEventFor(CommandLogout)
	assert.False(t, ok)

	for kind, want := range map[CommandKind]EventType{
		CommandLoadChats:     EventChatsResult,
		CommandLoadChat:      EventChatResult,
		CommandSendMessage:   EventMessageResult,
		CommandDeleteMessage: EventDeleteResult,
	} {
		got, ok := ResultEventFor(kind)
		assert.True(t, ok, kind.String())
		assert.Equal(t, want, got, kind.String())
		assert.False(t, got.IsPushed())
	}
}

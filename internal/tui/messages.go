package tui

import (
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/models"
)

// StateMsg carries one session state change into the program.
type StateMsg struct {
	State models.SessionState
	View  ViewState
}

type lookupDoneMsg struct {
	identifier string
	outcome    session.Outcome
	err        error
}

// identityDoneMsg ends a login, register or resume started by the UI.
// Success and server failures also arrive as a StateMsg; err only carries
// what never reached the session.
type identityDoneMsg struct {
	kind    models.OperationKind
	outcome session.Outcome
	err     error
}

type resumeSkippedMsg struct {
	err error
}

type acknowledgedMsg struct {
	err error
}

type loggedOutMsg struct {
	err error
}

type serverInfoMsg struct {
	info models.AppBuildInfo
	err  error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}

// ChatEventMsg carries a change pushed by the server for the opened chat.
type ChatEventMsg struct {
	Event models.ChatEvent
}

type chatsLoadedMsg struct {
	chats []models.Chat
	err   error
}

type chatOpenedMsg struct {
	opened models.OpenedChat
	err    error
}

type messageSentMsg struct {
	message models.Message
	err     error
}

type messageDeletedMsg struct {
	messageID int64
	err       error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"

	"github.com/MKhiriev/whispee/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_mock.go -package=mock

// Transport is the bidirectional message channel to the server. It is
// opened and closed outside of this package.
type Transport interface {
	// Send writes one frame. It may block until the frame is handed to the
	// network or ctx is done.
	Send(ctx context.Context, msg []byte) error

	// OnMessage registers the handler for inbound frames. The session calls
	// it exactly once; handler may be invoked from any goroutine.
	OnMessage(handler func(msg []byte))

	// OnClose registers the handler called once when the transport goes
	// away. err is nil on a clean close.
	OnClose(handler func(err error))
}

// Notifier receives every state change of a session, in order.
//
// Notify is called from the session goroutine. Implementations must not call
// back into the session synchronously; hand the state over to another
// goroutine instead.
type Notifier interface {
	Notify(state models.SessionState)
}

// ChatListener receives the changes the server pushes for the chat opened
// last. Like [Notifier] it is called from the session goroutine.
type ChatListener interface {
	OnChatEvent(event models.ChatEvent)
}

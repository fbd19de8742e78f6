// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import "errors"

var (
	// ErrBusy is returned when an operation of the same kind, or any identity
	// operation while one is in flight, is already waiting for the server.
	ErrBusy = errors.New("operation already in progress")

	// ErrAlreadyAuthenticated is returned when login, register or resume is
	// attempted on an authenticated session.
	ErrAlreadyAuthenticated = errors.New("session already authenticated")

	// ErrNotAuthenticated is returned by Logout and the chat requests on a
	// session with no user.
	ErrNotAuthenticated = errors.New("session not authenticated")

	// ErrSend wraps the transport error of a frame that could not be sent.
	ErrSend = errors.New("send failed")

	// ErrDisconnected is returned by Run when the transport goes away.
	ErrDisconnected = errors.New("transport disconnected")

	// ErrClosed is returned by calls made after Run has exited.
	ErrClosed = errors.New("session closed")

	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("session already running")
)

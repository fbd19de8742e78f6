// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// whispee server handlers.
//
// The Msg* constants are the human-readable reasons written into failed
// result events and HTTP error bodies. Clients display them verbatim, so
// the wording lives in one place.
package app

const (
	// MsgInvalidRequest is returned when a command payload fails validation.
	MsgInvalidRequest = "invalid request"

	// MsgInvalidCredentials is returned when the identifier does not match
	// an account or the password is wrong. Both cases share one message.
	MsgInvalidCredentials = "invalid username or password"

	// MsgUsernameTaken is returned when registering an existing username.
	MsgUsernameTaken = "username already exists"

	// MsgEmailTaken is returned when registering an existing e-mail.
	MsgEmailTaken = "email already exists"

	// MsgSessionExpired is returned when a session token is unknown, revoked,
	// expired or forged.
	MsgSessionExpired = "session expired"

	// MsgNotAuthenticated is returned for a chat command sent before the
	// connection logged in.
	MsgNotAuthenticated = "not authenticated"

	// MsgChatNotFound is returned when a chat id names no chat.
	MsgChatNotFound = "chat not found"

	// MsgMessageNotFound is returned when deleting a message that is gone.
	MsgMessageNotFound = "message not found"

	// MsgNotMessageAuthor is returned when deleting someone else's message.
	MsgNotMessageAuthor = "only the author can delete a message"

	// MsgTooManyRequests is returned when a connection or client IP exceeds
	// its rate limit.
	MsgTooManyRequests = "too many requests"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal error"
)

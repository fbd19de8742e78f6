// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user input before it reaches the protocol.
//
// The credential rules of the login, register and identifier forms live in
// [CredentialsValidator]; the client checks them before a command is sent
// and the server checks them again on receipt. [ChatValidator] does the same
// for chat messages.
package validators

import "context"

// Validator validates a value. Passing field names restricts the check to
// those fields, e.g. "identifier" on login credentials.
type Validator interface {
	Validate(context.Context, any, ...string) error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

var (
	// errNoHandlersAreCreated is returned by NewHandlers when the server
	// configuration has no HTTP address to serve the websocket endpoint on.
	errNoHandlersAreCreated = errors.New("no handlers are created")

	errNoAuthService = errors.New("auth service is required")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrServerShuttingDown is returned when an upgrade arrives after the
	// connections were closed for shutdown.
	ErrServerShuttingDown = errors.New("server is shutting down")
)

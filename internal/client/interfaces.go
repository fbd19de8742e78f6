// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
}

// Transport is the connection the session talks over.
type Transport interface {
	// Start begins reading frames. Handlers must be registered before.
	Start()
	Close() error
}

// Runner is a blocking component stopped by cancelling ctx, such as the
// session loop or the terminal UI.
type Runner interface {
	Run(ctx context.Context) error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session implements the client side of the whispee session
// protocol: the pending request registry and the authentication state
// machine that sits between the terminal UI and the websocket transport.
//
// A [Session] owns exactly one inbound handler on its [Transport] for its
// whole lifetime. Every mutation (UI calls, inbound frames, request timeouts
// and the transport disconnect) is posted to the goroutine running
// [Session.Run] and applied in order, so the [Registry] and the current
// [models.SessionState] need no further locking.
//
// The phase moves Anonymous → Submitting → Authenticated or Failed. At most
// one operation of each [models.OperationKind] is in flight; a second
// submission of the same kind fails fast with [ErrBusy].
package session

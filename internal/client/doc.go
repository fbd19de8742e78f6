// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client runtime.
//
// It runs the websocket transport, the session event loop and the terminal
// UI as one process lifecycle: when any of them stops, the others are shut
// down.
package client

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "errors"

// ErrIncompleteApp is returned by NewApp when a component is missing.
var ErrIncompleteApp = errors.New("client app needs a transport, a session and a ui")

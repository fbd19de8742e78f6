// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoHTTPHandler is returned by NewServer when no HTTP handler was built.
var errNoHTTPHandler = errors.New("server needs an http handler")

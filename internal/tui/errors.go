// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/whispee/internal/adapter"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/MKhiriev/whispee/internal/session"
)

const msgServerUnavailable = "Server is unavailable"

// humanizeError turns an error that never reached the server into a line
// for the user.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrInvalidDataProvided):
		return strings.TrimPrefix(err.Error(), service.ErrInvalidDataProvided.Error()+": ")
	case errors.Is(err, session.ErrBusy):
		return "A request is already in progress"
	case errors.Is(err, session.ErrAlreadyAuthenticated):
		return "Already signed in"
	case errors.Is(err, session.ErrSend), errors.Is(err, session.ErrClosed), errors.Is(err, adapter.ErrServerUnavailable):
		return msgServerUnavailable
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return msgServerUnavailable
	}

	return err.Error()
}

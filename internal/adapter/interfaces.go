// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the network connections of whispee.
//
// [WebsocketTransport] is the long-lived socket that carries the session
// protocol. It implements the transport contract of the session package and
// is used by the client (dialed) and by the server (upgraded).
// [ServerInfoAdapter] talks plain HTTP to the informational endpoints of the
// server.
//
// HTTP status codes are mapped to the sentinel values of errors.go by
// mapHTTPError so that callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/whispee/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_info_adapter_mock.go -package=mock

// ServerInfoAdapter reads public server metadata over HTTP.
type ServerInfoAdapter interface {
	// Version returns the build information published on GET /api/version.
	Version(ctx context.Context) (models.AppBuildInfo, error)
}

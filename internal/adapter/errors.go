package adapter

import "errors"

// HTTP status errors returned by mapHTTPError.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("not found")
	ErrTooManyRequests = errors.New("too many requests")

	// ErrServerUnavailable wraps every 5xx answer.
	ErrServerUnavailable = errors.New("server unavailable")
)

// Websocket transport errors.
var (
	// ErrInvalidAddress is returned when the configured server address cannot
	// be turned into a URL.
	ErrInvalidAddress = errors.New("invalid server address")

	// ErrDial is returned when the websocket handshake fails.
	ErrDial = errors.New("websocket dial failed")

	// ErrTransportClosed is returned by Send once the socket is closed.
	ErrTransportClosed = errors.New("transport closed")
)

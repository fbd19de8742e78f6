package http

import (
	"errors"

	"github.com/MKhiriev/whispee/internal/app"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/MKhiriev/whispee/internal/store"
)

// errorReasons maps service and store errors to the reason sent in a failed
// result event. Anything unlisted is reported as an internal error so that
// storage details never reach the client.
var errorReasons = []struct {
	target error
	reason string
}{
	{service.ErrInvalidDataProvided, app.MsgInvalidRequest},
	{service.ErrInvalidCredentials, app.MsgInvalidCredentials},
	{service.ErrSessionExpired, app.MsgSessionExpired},
	{store.ErrUsernameTaken, app.MsgUsernameTaken},
	{store.ErrEmailTaken, app.MsgEmailTaken},
	{service.ErrNotAuthenticated, app.MsgNotAuthenticated},
	{service.ErrNotMessageAuthor, app.MsgNotMessageAuthor},
	{store.ErrChatNotFound, app.MsgChatNotFound},
	{store.ErrMessageNotFound, app.MsgMessageNotFound},
}

func reasonFromError(err error) string {
	for _, e := range errorReasons {
		if errors.Is(err, e.target) {
			return e.reason
		}
	}
	return app.MsgInternalServerError
}

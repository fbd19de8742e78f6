package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var statusErrors = map[int]error{
	http.StatusBadRequest:      ErrBadRequest,
	http.StatusNotFound:        ErrNotFound,
	http.StatusTooManyRequests: ErrTooManyRequests,
}

// mapHTTPError returns nil for a 2xx response. Otherwise the error wraps the
// sentinel of the status, or ErrServerUnavailable for any 5xx.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	if sentinel, ok := statusErrors[code]; ok {
		return fmt.Errorf("%w: %s", sentinel, body)
	}
	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d: %s", ErrServerUnavailable, code, body)
	}

	return fmt.Errorf("http %d: %s", code, body)
}

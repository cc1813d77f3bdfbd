package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError means the backend could not be reached at all: DNS
// failure, refused connection, timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError means the backend answered with a non-success status. Detail
// carries the response's detail/message field when one was present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Fallback messages. Network failures and credential rejections must read
// differently to the user.
const (
	msgUnreachable        = "Unable to reach the SmartMart API. Please try again."
	msgInvalidCredentials = "Invalid username or password."
	msgUnknown            = "Login failed due to an unexpected error."
)

// FailureMessage normalizes a backend error into a human-readable message.
// The backend's own detail text is surfaced verbatim when available.
func FailureMessage(err error) string {
	var transport *TransportError
	if errors.As(err, &transport) {
		return msgUnreachable
	}

	var api *APIError
	if errors.As(err, &api) {
		if api.Detail != "" {
			return api.Detail
		}
		if api.StatusCode == http.StatusUnauthorized || api.StatusCode == http.StatusForbidden {
			return msgInvalidCredentials
		}
		return msgUnknown
	}

	return msgUnknown
}

package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork wraps failures where no HTTP response was received.
	ErrNetwork = errors.New("network failure")
	// ErrUnauthorized matches HTTPError values with status 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformedAuthResponse is returned when login/register succeed at the
	// HTTP level but the body carries no token.
	ErrMalformedAuthResponse = errors.New("malformed auth response")
)

// HTTPError is returned for every response outside the 2xx range.
// Payload holds the decoded JSON error body, the raw text when the body is not
// JSON, or nil when the body is empty.
type HTTPError struct {
	Status  int
	Payload any
}

func (e *HTTPError) Error() string {
	if e.Payload == nil {
		return fmt.Sprintf("http %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("http %d %s: %v", e.Status, http.StatusText(e.Status), e.Payload)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) work on auth rejections.
func (e *HTTPError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Detail returns the backend's "detail" message if the payload has one.
func (e *HTTPError) Detail() string {
	if m, ok := e.Payload.(map[string]any); ok {
		if s, ok := m["detail"].(string); ok {
			return s
		}
	}
	return ""
}

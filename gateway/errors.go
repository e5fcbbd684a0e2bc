package gateway

import (
	"fmt"
	"net/http"

	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

var (
	// ErrNetwork marks transport-level failures. The concrete cause is
	// available through errors.Unwrap on the returned NetworkError.
	ErrNetwork = interrors.ErrNetwork

	// ErrAuthenticationExpired is surfaced when a 401 could not be
	// recovered by the refresh flow. The session has been torn down.
	ErrAuthenticationExpired = interrors.ErrAuthenticationExpired

	// ErrAccessDenied matches 403 responses via errors.Is.
	ErrAccessDenied = interrors.ErrAccessDenied

	// ErrNotFound matches 404 responses via errors.Is.
	ErrNotFound = interrors.ErrNotFound
)

// NetworkError wraps a failure to reach the server at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) match any NetworkError.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// apiError is the server's error envelope.
type apiError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	ErrorName  string `json:"error"`
}

// HTTPError is a non-2xx response from the API. Body holds the raw payload
// so validation errors reach the caller verbatim; Message is the parsed
// server message when the body carries the standard envelope.
type HTTPError struct {
	Status  int
	Body    []byte
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// Is maps well-known statuses onto the client's error taxonomy so callers
// can use errors.Is without inspecting status codes.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrAccessDenied:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

package errors

import "errors"

// Canonical error values for the auth client. Public packages re-export the
// ones that belong to their surface so callers never import internal/.
var (
	// Authentication errors
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccessDenied          = errors.New("access denied")
	ErrAuthenticationExpired = errors.New("authentication expired")
	ErrNoCredential          = errors.New("no stored credential")

	// Transport errors
	ErrNetwork = errors.New("network error")

	// Resource errors
	ErrNotFound = errors.New("not found")
)

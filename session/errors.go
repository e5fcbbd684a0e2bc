package session

import interrors "github.com/jrsteele09/go-auth-client/internal/errors"

var (
	// ErrInvalidCredentials means the login was rejected by the server.
	// User-correctable; the wrapped message is the server's own.
	ErrInvalidCredentials = interrors.ErrInvalidCredentials

	// ErrAccessDenied means the credentials are valid but the role is not
	// authorized for this application. The session is torn down before
	// this is returned.
	ErrAccessDenied = interrors.ErrAccessDenied

	// ErrAuthenticationExpired means the silent refresh failed and the
	// user must log in again.
	ErrAuthenticationExpired = interrors.ErrAuthenticationExpired
)

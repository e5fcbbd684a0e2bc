package users

import interrors "github.com/jrsteele09/go-auth-client/internal/errors"

var (
	// ErrNotFound is returned when the requested user does not exist.
	ErrNotFound = interrors.ErrNotFound

	// ErrAccessDenied is returned when the caller's role may not perform
	// the requested user-management action.
	ErrAccessDenied = interrors.ErrAccessDenied
)

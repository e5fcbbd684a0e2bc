package credentials

import (
	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/users"
)

// ErrNotFound is returned by Load* methods when nothing is stored.
var ErrNotFound = interrors.ErrNotFound

// Credential is the access/refresh token pair issued by the auth server.
// Both strings are opaque bearer tokens; the client never inspects their
// internal structure.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store is durable key/value persistence of the credential pair and the
// last-known identity, surviving process restarts. It is pure storage: no
// token validation happens here. Concurrent writes are last-write-wins;
// the session manager is the only logical writer.
type Store interface {
	// SaveCredential persists the token pair
	SaveCredential(cred Credential) error

	// LoadCredential returns the stored pair, or ErrNotFound
	LoadCredential() (Credential, error)

	// SaveIdentity caches the last-known user profile
	SaveIdentity(user *users.User) error

	// LoadIdentity returns the cached profile, or ErrNotFound
	LoadIdentity() (*users.User, error)

	// Clear removes both the credential and the cached identity
	Clear() error
}

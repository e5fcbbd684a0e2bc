package session

import (
	"sync"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/users"
)

// Snapshot is a consistent, point-in-time view of the session. Identity and
// Credential are always both present or both absent.
type Snapshot struct {
	Identity   *users.User
	Credential *credentials.Credential
	Loading    bool
}

// Authenticated reports whether the snapshot carries a verified identity.
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil && s.Credential != nil
}

// State is the process-wide record of who is logged in. The only writers
// are the session Manager and the refresh Coordinator's expiry hook; every
// other component reads through Snapshot. Tests construct a fresh State per
// case rather than sharing a package-level instance.
type State struct {
	lock       sync.RWMutex
	identity   *users.User
	credential *credentials.Credential
	loading    bool
}

// NewState returns an empty State in the loading phase; Bootstrap (or the
// first login) completes it.
func NewState() *State {
	return &State{loading: true}
}

// Snapshot returns the current identity/credential pair atomically. No
// reader ever observes a new identity paired with a stale credential.
func (s *State) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()

	snap := Snapshot{Loading: s.loading}
	if s.identity != nil {
		copied := *s.identity
		snap.Identity = &copied
	}
	if s.credential != nil {
		copied := *s.credential
		snap.Credential = &copied
	}
	return snap
}

// Set publishes a verified identity and its credential in one transition
// and ends the loading phase.
func (s *State) Set(identity *users.User, cred credentials.Credential) {
	s.lock.Lock()
	defer s.lock.Unlock()

	identityCopy := *identity
	s.identity = &identityCopy
	s.credential = &cred
	s.loading = false
}

// UpdateIdentity replaces the identity of an authenticated session, e.g.
// after a profile fetch. It is a no-op when the session has been cleared,
// so a request that completes after logout cannot re-populate the state.
func (s *State) UpdateIdentity(identity *users.User) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.credential == nil {
		return
	}
	copied := *identity
	s.identity = &copied
}

// Clear empties the session and ends the loading phase. Immediate and
// visible to all subsequent reads.
func (s *State) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.identity = nil
	s.credential = nil
	s.loading = false
}

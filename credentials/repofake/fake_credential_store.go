package fakecredentialstore

import (
	"sync"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/users"
)

var _ credentials.Store = (*FakeCredentialStore)(nil)

// FakeCredentialStore is an in-memory credentials.Store for tests. A fresh
// instance per test case keeps cases independent of each other.
type FakeCredentialStore struct {
	lock     sync.RWMutex
	cred     *credentials.Credential
	identity *users.User

	// SaveErr, when set, is returned by the next write. Lets tests
	// exercise storage failure paths.
	SaveErr error
}

func NewFakeCredentialStore() *FakeCredentialStore {
	return &FakeCredentialStore{}
}

func (s *FakeCredentialStore) SaveCredential(cred credentials.Credential) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	copied := cred
	s.cred = &copied
	return nil
}

func (s *FakeCredentialStore) LoadCredential() (credentials.Credential, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.cred == nil {
		return credentials.Credential{}, credentials.ErrNotFound
	}
	return *s.cred, nil
}

func (s *FakeCredentialStore) SaveIdentity(user *users.User) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	copied := *user
	s.identity = &copied
	return nil
}

func (s *FakeCredentialStore) LoadIdentity() (*users.User, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.identity == nil {
		return nil, credentials.ErrNotFound
	}
	copied := *s.identity
	return &copied, nil
}

func (s *FakeCredentialStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.cred = nil
	s.identity = nil
	return nil
}

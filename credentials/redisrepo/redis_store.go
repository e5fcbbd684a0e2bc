// Package redisrepo persists credentials in Redis. Intended for
// service-account deployments where several workers share one session and
// the refresh must be visible to all of them.
package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/users"
)

const opTimeout = 5 * time.Second

var _ credentials.Store = (*Store)(nil)

// Store is a Redis-backed credentials.Store. Keys are namespaced as
// authclient:<namespace>:<key>.
type Store struct {
	client    *redis.Client
	namespace string
}

// New wraps an already-connected Redis client.
func New(client *redis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = "default"
	}
	return &Store{client: client, namespace: namespace}
}

func (s *Store) key(name string) string {
	return fmt.Sprintf("authclient:%s:%s", s.namespace, name)
}

func (s *Store) put(name string, value any) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(name), raw, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (s *Store) get(name string, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err == redis.Nil {
		return credentials.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (s *Store) SaveCredential(cred credentials.Credential) error {
	return s.put("credential", cred)
}

func (s *Store) LoadCredential() (credentials.Credential, error) {
	var cred credentials.Credential
	if err := s.get("credential", &cred); err != nil {
		return credentials.Credential{}, err
	}
	return cred, nil
}

func (s *Store) SaveIdentity(user *users.User) error {
	return s.put("identity", user)
}

func (s *Store) LoadIdentity() (*users.User, error) {
	var user users.User
	if err := s.get("identity", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key("credential"), s.key("identity")).Err(); err != nil {
		return fmt.Errorf("clearing auth state: %w", err)
	}
	return nil
}

// Package refresh turns many concurrent "token expired" signals into at
// most one outstanding call to the auth server's refresh endpoint.
package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/go-auth-client/credentials"
	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

var (
	// ErrAuthenticationExpired means the refresh token was rejected (or the
	// refresh call failed) and the session has been torn down. Only logging
	// in again recovers from it.
	ErrAuthenticationExpired = interrors.ErrAuthenticationExpired

	// ErrNoCredential means there is no stored refresh token to exchange.
	ErrNoCredential = interrors.ErrNoCredential
)

// Coordinator is the single-flight refresh controller. N requests that fail
// with an authentication error while one refresh is outstanding all attach
// to the same outcome; exactly one network call is made.
//
// The coordinator talks to the refresh endpoint with a raw http.Client so a
// 401 from the refresh call itself can never recurse into another refresh.
type Coordinator struct {
	baseURL string
	client  *http.Client
	store   credentials.Store

	group      singleflight.Group
	generation atomic.Uint64

	onExpired atomic.Pointer[func()]
}

// NewCoordinator creates a Coordinator for the given auth server base URL.
// httpClient may be nil, in which case http.DefaultClient is used.
func NewCoordinator(baseURL string, httpClient *http.Client, store credentials.Store) *Coordinator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Coordinator{
		baseURL: baseURL,
		client:  httpClient,
		store:   store,
	}
}

// SetExpiryHook registers the callback fired when a refresh fails and the
// stored session is cleared. The session manager wires this to its own
// state teardown.
func (c *Coordinator) SetExpiryHook(fn func()) {
	c.onExpired.Store(&fn)
}

// Invalidate discards any refresh outcome that has not yet completed.
// Called on logout so a late refresh cannot re-populate a cleared session.
func (c *Coordinator) Invalidate() {
	c.generation.Add(1)
}

// Refresh exchanges the stored refresh token for a new access token.
// Concurrent callers coalesce onto one network call and all receive the
// same outcome. On success the new token is persisted before any waiter is
// released; on failure the store is cleared and every waiter gets
// ErrAuthenticationExpired.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	gen := c.generation.Load()
	// Keying the flight by generation keeps a caller from attaching to an
	// exchange started before a logout it has already observed.
	v, err, _ := c.group.Do(fmt.Sprintf("refresh-%d", gen), func() (any, error) {
		return c.exchange(ctx, gen)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Coordinator) exchange(ctx context.Context, gen uint64) (string, error) {
	cred, err := c.store.LoadCredential()
	if err != nil || cred.RefreshToken == "" {
		// Nothing to exchange. The session is already gone; do not tear
		// down again, just tell the caller to re-authenticate.
		return "", ErrNoCredential
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: cred.RefreshToken})
	if err != nil {
		return "", fmt.Errorf("encode refresh request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// A transport failure during refresh is indistinguishable from a
		// dead session as far as waiters are concerned: fail them all
		// uniformly rather than retrying some with a stale token.
		return "", c.expire(gen, fmt.Errorf("refresh call failed: %w", err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.expire(gen, fmt.Errorf("read refresh response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		// Includes 401/403 from the refresh endpoint itself; that is an
		// unconditional refresh failure, never a nested refresh.
		return "", c.expire(gen, fmt.Errorf("refresh rejected with status %d", resp.StatusCode))
	}

	var parsed refreshResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", c.expire(gen, fmt.Errorf("decode refresh response: %w", err))
	}
	if parsed.AccessToken == "" {
		return "", c.expire(gen, fmt.Errorf("refresh response missing access_token"))
	}

	if c.generation.Load() != gen {
		// Logout happened while the refresh was in flight. The outcome is
		// void; waiters must not retry against the cleared session.
		log.Debug().Msg("discarding refresh outcome from before logout")
		return "", ErrAuthenticationExpired
	}

	cred.AccessToken = parsed.AccessToken
	if err := c.store.SaveCredential(cred); err != nil {
		return "", c.expire(gen, fmt.Errorf("persist refreshed credential: %w", err))
	}

	if c.generation.Load() != gen {
		// Logout raced the store write: the save may have re-populated a
		// store the logout already cleared. Undo it and void the outcome.
		if err := c.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("failed to clear credential store")
		}
		log.Debug().Msg("discarding refresh outcome from before logout")
		return "", ErrAuthenticationExpired
	}

	log.Debug().Msg("access token refreshed")
	return parsed.AccessToken, nil
}

// expire clears the stored session and notifies the expiry hook, unless a
// logout already invalidated this refresh attempt.
func (c *Coordinator) expire(gen uint64, cause error) error {
	if c.generation.Load() != gen {
		return ErrAuthenticationExpired
	}
	log.Info().Err(cause).Msg("refresh failed, clearing session")
	if err := c.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear credential store")
	}
	if fn := c.onExpired.Load(); fn != nil && *fn != nil {
		(*fn)()
	}
	return fmt.Errorf("%w: %v", ErrAuthenticationExpired, cause)
}

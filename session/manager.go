// Package session owns the client-side credential lifecycle: restore on
// start, interactive login, silent refresh teardown, and logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/gateway"
	"github.com/jrsteele09/go-auth-client/refresh"
	"github.com/jrsteele09/go-auth-client/users"
)

// Manager orchestrates login, logout, and bootstrap-on-load. It is the only
// component that writes the credential store and the session state.
type Manager struct {
	gw          *gateway.Client
	store       credentials.Store
	state       *State
	coordinator *refresh.Coordinator

	// allowedRoles is the authorization policy applied after a successful
	// login. Empty means every role the server issues may use this
	// application.
	allowedRoles []users.Role

	onExpired func()
}

// Option configures the Manager.
type Option func(*Manager)

// WithAllowedRoles restricts which roles may complete a login.
func WithAllowedRoles(roles ...users.Role) Option {
	return func(m *Manager) {
		m.allowedRoles = roles
	}
}

// WithExpiredHandler registers a callback fired whenever the session is
// torn down by a failed refresh. UIs use it to navigate to the login view.
func WithExpiredHandler(fn func()) Option {
	return func(m *Manager) {
		m.onExpired = fn
	}
}

// NewManager wires the session manager to the gateway, store, and refresh
// coordinator, and hooks session teardown into the coordinator's expiry
// signal.
func NewManager(gw *gateway.Client, store credentials.Store, coordinator *refresh.Coordinator, options ...Option) *Manager {
	m := &Manager{
		gw:          gw,
		store:       store,
		state:       NewState(),
		coordinator: coordinator,
	}
	for _, opt := range options {
		opt(m)
	}
	if coordinator != nil {
		coordinator.SetExpiryHook(func() {
			m.state.Clear()
			if m.onExpired != nil {
				m.onExpired()
			}
		})
	}
	return m
}

// State returns the observable session state.
func (m *Manager) State() *State { return m.state }

type loginRequest struct {
	NIK      string `json:"nik"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *users.User `json:"user"`
}

type verifyResponse struct {
	Valid bool        `json:"valid"`
	User  *users.User `json:"user,omitempty"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    *users.User `json:"user"`
}

// Bootstrap restores the session from the credential store on application
// start. A missing credential or a failed verification is an expected
// outcome, not an error: the state is simply left empty (and the stale
// credential cleared). The verify endpoint is the only network call, and
// only when a credential exists.
func (m *Manager) Bootstrap(ctx context.Context) error {
	cred, err := m.store.LoadCredential()
	if err != nil || cred.AccessToken == "" {
		m.state.Clear()
		return nil
	}

	var resp verifyResponse
	verifyErr := m.gw.Do(ctx, gateway.Request{
		Method:  http.MethodPost,
		Path:    "/auth/verify",
		NoRetry: true,
	}, &resp)
	if verifyErr != nil || !resp.Valid {
		log.Debug().AnErr("cause", verifyErr).Msg("stored session rejected, starting unauthenticated")
		if err := m.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("failed to clear credential store")
		}
		m.state.Clear()
		return nil
	}

	identity := resp.User
	if identity == nil {
		if cached, err := m.store.LoadIdentity(); err == nil {
			identity = cached
		}
	}
	if identity == nil {
		// Valid token but no identity anywhere; treat as a stale session.
		if err := m.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("failed to clear credential store")
		}
		m.state.Clear()
		return nil
	}

	if resp.User != nil {
		if err := m.store.SaveIdentity(resp.User); err != nil {
			log.Warn().Err(err).Msg("failed to cache identity")
		}
	}
	m.state.Set(identity, cred)
	log.Info().Str("nik", identity.NIK).Msg("session restored")
	return nil
}

// Login authenticates with the employee identifier and password. On a 401
// the server's message is wrapped in ErrInvalidCredentials and the state is
// untouched. A role outside the allowed set completes as a logout and
// returns ErrAccessDenied.
func (m *Manager) Login(ctx context.Context, nik, password string) (*users.User, error) {
	var resp authResponse
	err := m.gw.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      loginRequest{NIK: nik, Password: password},
		Anonymous: true,
	}, &resp)
	if err != nil {
		var httpErr *gateway.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized {
			message := httpErr.Message
			if message == "" {
				message = "invalid nik or password"
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, message)
		}
		return nil, err
	}
	if resp.User == nil || resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, fmt.Errorf("login response missing token or user")
	}

	cred := credentials.Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}

	if len(m.allowedRoles) > 0 && !resp.User.HasRole(m.allowedRoles...) {
		// The token is valid but the role may not use this application.
		// Store the pair just long enough to invalidate it server-side.
		if err := m.store.SaveCredential(cred); err != nil {
			log.Warn().Err(err).Msg("failed to store credential for denial logout")
		}
		m.Logout(ctx)
		return nil, fmt.Errorf("%w: role %s is not authorized for this application", ErrAccessDenied, resp.User.Role)
	}

	if err := m.store.SaveCredential(cred); err != nil {
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	if err := m.store.SaveIdentity(resp.User); err != nil {
		log.Warn().Err(err).Msg("failed to cache identity")
	}
	m.state.Set(resp.User, cred)
	log.Info().Str("nik", resp.User.NIK).Str("role", string(resp.User.Role)).Msg("logged in")
	return resp.User, nil
}

// Logout notifies the server to invalidate the refresh token (best effort,
// failures are logged and ignored), then unconditionally clears the store
// and the state. Local logout always succeeds.
func (m *Manager) Logout(ctx context.Context) {
	if cred, err := m.store.LoadCredential(); err == nil && cred.RefreshToken != "" {
		logoutErr := m.gw.Do(ctx, gateway.Request{
			Method:  http.MethodPost,
			Path:    "/auth/logout",
			Body:    logoutRequest{RefreshToken: cred.RefreshToken},
			NoRetry: true,
		}, nil)
		if logoutErr != nil {
			log.Warn().Err(logoutErr).Msg("server-side logout failed")
		}
	}

	if m.coordinator != nil {
		m.coordinator.Invalidate()
	}
	if err := m.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear credential store")
	}
	m.state.Clear()
	log.Info().Msg("logged out")
}

// Register creates an account through the auth server. It does not log the
// new user in.
func (m *Manager) Register(ctx context.Context, req users.CreateUserRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp registerResponse
	err := m.gw.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      req,
		Anonymous: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return resp.User, nil
}

// Profile fetches the current user's record from the auth server and
// writes the response back verbatim to the cache and the session state.
func (m *Manager) Profile(ctx context.Context) (*users.User, error) {
	var user users.User
	if err := m.gw.Get(ctx, "/auth/me", &user); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if err := m.store.SaveIdentity(&user); err != nil {
		log.Warn().Err(err).Msg("failed to cache identity")
	}
	m.state.UpdateIdentity(&user)
	return &user, nil
}

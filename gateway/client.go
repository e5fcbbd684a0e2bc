// Package gateway is the single outbound channel for every call to the
// protected API. It attaches the current access token, intercepts
// authentication failures, and coordinates the single-flight refresh.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/refresh"
)

const defaultTimeout = 30 * time.Second

// Request describes one outbound API call. Building a fresh Request value
// per attempt keeps retry state out of shared objects: a replayed request
// is a distinct send, not a mutated flag on the original.
type Request struct {
	Method string
	Path   string // e.g. "/users", joined onto the base URL
	Body   any    // JSON-encoded when non-nil

	// Anonymous requests carry no bearer token and never enter the
	// refresh flow (login, register).
	Anonymous bool

	// NoRetry sends the bearer token but passes a 401 straight through
	// instead of refreshing (verify, logout).
	NoRetry bool
}

// Client sends authenticated requests to the API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      credentials.Store
	refresher  *refresh.Coordinator
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a gateway Client. refresher may be nil, in which case 401s
// are never recovered (useful for wiring tests).
func New(baseURL string, store credentials.Store, refresher *refresh.Coordinator, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		refresher:  refresher,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends the request and decodes a successful JSON response into out
// (ignored when out is nil). Transport failures return a *NetworkError,
// non-2xx responses a *HTTPError; an unrecoverable 401 returns an error
// matching ErrAuthenticationExpired after the refresh flow has torn the
// session down.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	token := ""
	if !req.Anonymous {
		if cred, err := c.store.LoadCredential(); err == nil {
			token = cred.AccessToken
		}
	}

	status, err := c.send(ctx, req, token, out)
	if status != http.StatusUnauthorized || err == nil {
		return err
	}
	firstFailure := err

	if req.Anonymous || req.NoRetry {
		return firstFailure
	}

	// A 401 with no stored refresh token is not recoverable: behave as
	// "no credential" and do not touch the coordinator.
	cred, loadErr := c.store.LoadCredential()
	if loadErr != nil || cred.RefreshToken == "" {
		return fmt.Errorf("%w: %v", ErrAuthenticationExpired, firstFailure)
	}

	newToken, refreshErr := c.refresher.Refresh(ctx)
	if refreshErr != nil {
		if errors.Is(refreshErr, refresh.ErrNoCredential) {
			return fmt.Errorf("%w: %v", ErrAuthenticationExpired, firstFailure)
		}
		return refreshErr
	}

	// Replay the original request exactly once with the fresh token.
	// Whatever comes back, including another 401, is the final answer.
	_, retryErr := c.send(ctx, req, newToken, out)
	return retryErr
}

// send performs one HTTP round trip. It returns the response status (0 on
// transport failure) alongside the mapped error so Do can recognise a 401
// without unwrapping.
func (c *Client) send(ctx context.Context, req Request, token string, out any) (status int, err error) {
	requestID := uuid.NewString()
	started := time.Now()

	var bodyReader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().
			Str("request_id", requestID).
			Str("method", req.Method).
			Str("path", req.Path).
			Err(err).
			Msg("request transport failure")
		return 0, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &NetworkError{Err: err}
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Status: resp.StatusCode, Body: payload}
		var envelope apiError
		if json.Unmarshal(payload, &envelope) == nil {
			httpErr.Message = envelope.Message
		}
		return resp.StatusCode, httpErr
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

// Post sends a POST request with the given body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Patch sends a PATCH request with the given body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// Package remoteuserrepo implements users.Repo against the REST resource,
// with every call routed through the authenticated gateway.
package remoteuserrepo

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-auth-client/gateway"
	"github.com/jrsteele09/go-auth-client/users"
)

var _ users.Repo = (*RemoteUserRepo)(nil)

// RemoteUserRepo talks to GET/PATCH/DELETE /users endpoints. Authentication
// failures are resolved (or surfaced) by the gateway; a 403 comes back as
// users.ErrAccessDenied via errors.Is.
type RemoteUserRepo struct {
	gw *gateway.Client
}

func New(gw *gateway.Client) *RemoteUserRepo {
	return &RemoteUserRepo{gw: gw}
}

func (r *RemoteUserRepo) List(ctx context.Context) ([]*users.User, error) {
	var list []*users.User
	if err := r.gw.Get(ctx, "/users", &list); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (r *RemoteUserRepo) Get(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	if err := r.gw.Get(ctx, "/users/"+id, &user); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *RemoteUserRepo) Update(ctx context.Context, id string, req users.UpdateUserRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var user users.User
	if err := r.gw.Patch(ctx, "/users/"+id, req, &user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return &user, nil
}

// userEnvelope is the response shape of the activate/deactivate endpoints,
// which wrap the record unlike the plain PATCH.
type userEnvelope struct {
	Message string      `json:"message"`
	User    *users.User `json:"user"`
}

func (r *RemoteUserRepo) Activate(ctx context.Context, id string) (*users.User, error) {
	var envelope userEnvelope
	if err := r.gw.Patch(ctx, "/users/"+id+"/activate", nil, &envelope); err != nil {
		return nil, fmt.Errorf("activate user %s: %w", id, err)
	}
	return envelope.User, nil
}

func (r *RemoteUserRepo) Deactivate(ctx context.Context, id string) (*users.User, error) {
	var envelope userEnvelope
	if err := r.gw.Patch(ctx, "/users/"+id+"/deactivate", nil, &envelope); err != nil {
		return nil, fmt.Errorf("deactivate user %s: %w", id, err)
	}
	return envelope.User, nil
}

func (r *RemoteUserRepo) Delete(ctx context.Context, id string) error {
	if err := r.gw.Delete(ctx, "/users/"+id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

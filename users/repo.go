package users

import "context"

// Repo defines the user-management operations exposed by the directory
// service. The production implementation (remoterepo) talks to the REST
// resource through the authenticated gateway; repofake backs tests.
type Repo interface {
	// List returns every user visible to the caller
	List(ctx context.Context) ([]*User, error)

	// Get retrieves a single user by ID
	Get(ctx context.Context, id string) (*User, error)

	// Update applies a partial update and returns the updated record
	Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error)

	// Activate re-enables a deactivated account
	Activate(ctx context.Context, id string) (*User, error)

	// Deactivate disables an account without deleting it
	Deactivate(ctx context.Context, id string) (*User, error)

	// Delete removes the account permanently
	Delete(ctx context.Context, id string) error
}

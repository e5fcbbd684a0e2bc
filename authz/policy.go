package authz

import (
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/users"
)

// Policy maps route names to the roles allowed through. Routes absent from
// the table admit any authenticated role; the table is configuration, not
// behaviour baked into the gate.
type Policy map[string][]users.Role

// Authorize evaluates the session against the role set configured for the
// named route.
func (p Policy) Authorize(snap session.Snapshot, route string) Decision {
	return Authorize(snap, p[route])
}

// Route names used by the default policy.
const (
	RouteDashboard       = "dashboard"
	RouteUsersManagement = "users"
	RouteProfile         = "profile"
)

// DefaultPolicy is the strict, role-scoped table: every operational role
// reaches the dashboard and its own profile, while user management is
// reserved for administrators and managers.
func DefaultPolicy() Policy {
	return Policy{
		RouteDashboard:       nil, // any authenticated role
		RouteProfile:         nil,
		RouteUsersManagement: {users.RoleAdmin, users.RoleManager},
	}
}

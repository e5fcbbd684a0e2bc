// Package authz decides whether the current session may enter a protected
// view. It is pure: no side effects, safe to call on every route evaluation.
package authz

import (
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/users"
)

// Target names where a rejected caller should be sent.
type Target string

const (
	// TargetNone means no redirect: the caller is allowed or must wait.
	TargetNone Target = ""

	// TargetLogin is the login view, for unauthenticated callers.
	TargetLogin Target = "login"

	// TargetForbidden is the forbidden view, for authenticated callers
	// whose role is outside the required set. Distinct from TargetLogin
	// so the UI does not loop an already-logged-in user through login.
	TargetForbidden Target = "forbidden"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed  bool
	Pending  bool // session still loading; wait, do not decide
	Redirect Target
}

// Authorize evaluates the session snapshot against a required role set.
// An empty set admits any authenticated role. The decision depends only on
// the snapshot passed in, never on shared state.
func Authorize(snap session.Snapshot, required []users.Role) Decision {
	if snap.Loading {
		return Decision{Pending: true}
	}
	if !snap.Authenticated() {
		return Decision{Redirect: TargetLogin}
	}
	if !snap.Identity.HasRole(required...) {
		return Decision{Redirect: TargetForbidden}
	}
	return Decision{Allowed: true}
}

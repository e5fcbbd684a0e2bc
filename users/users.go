package users

import "time"

// Role represents a user's operational grade in the engineering-management
// application. The set is closed: the auth server rejects anything else.
type Role string

const (
	RoleAdmin             Role = "ADMIN"              // Full user-management and configuration access
	RoleManager           Role = "MANAGER"            // Can manage users and view all dashboards
	RoleEngineer          Role = "ENGINEER"           // Regular engineering user, carries a specialization
	RoleAssistantEngineer Role = "ASSISTANT_ENGINEER" // Supports engineers, read-mostly access
	RoleTechnician        Role = "TECHNICIAN"         // Shop-floor user
)

// Specialization is meaningful only for engineering roles and is otherwise
// absent from the user record.
type Specialization string

const (
	SpecializationReliable Specialization = "RELIABLE"
	SpecializationSMED     Specialization = "SMED"
	SpecializationPlatform Specialization = "PLATFORM"
	SpecializationTPM      Specialization = "TPM"
)

// AllRoles lists every role the auth server can issue.
var AllRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleEngineer,
	RoleAssistantEngineer,
	RoleTechnician,
}

// ValidRole reports whether r is a member of the closed role set.
func ValidRole(r Role) bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ValidSpecialization reports whether s is a known engineering specialization.
func ValidSpecialization(s Specialization) bool {
	switch s {
	case SpecializationReliable, SpecializationSMED, SpecializationPlatform, SpecializationTPM:
		return true
	}
	return false
}

// RolesFromStrings converts a configured list of role names into Roles,
// dropping unknown entries.
func RolesFromStrings(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		if r := Role(n); ValidRole(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// User is the identity record issued by the auth server's login and verify
// responses. The client never mutates it locally; profile updates write the
// server's response back verbatim.
type User struct {
	ID             string         `json:"id,omitempty"`             // Unique identifier for the user
	NIK            string         `json:"nik,omitempty"`            // Employee identifier, the login name
	Email          string         `json:"email,omitempty"`          // Optional email address
	Name           string         `json:"name,omitempty"`           // Display name
	Role           Role           `json:"role,omitempty"`           // Operational grade
	Specialization Specialization `json:"specialization,omitempty"` // Only set for engineering roles
	IsActive       bool           `json:"isActive"`                 // Deactivated users cannot log in
	CreatedAt      time.Time      `json:"createdAt,omitzero"`
	UpdatedAt      time.Time      `json:"updatedAt,omitzero"`
}

// HasRole reports whether the user's role is one of the given roles.
// An empty role list means "any role is acceptable".
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin returns true if the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// CanManageUsers returns true if the user may perform user-management
// mutations (the strict, role-scoped policy).
func (u *User) CanManageUsers() bool {
	return u.HasRole(RoleAdmin, RoleManager)
}

package users

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationError reports the fields of a request that failed client-side
// validation, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// CreateUserRequest is the closed payload for account registration.
// It replaces the free-form blob the server would otherwise accept.
type CreateUserRequest struct {
	NIK            string         `json:"nik"`
	Email          string         `json:"email,omitempty"`
	Password       string         `json:"password"`
	Name           string         `json:"name"`
	Role           Role           `json:"role"`
	Specialization Specialization `json:"specialization,omitempty"`
}

// Validate checks the request before it is ever put on the wire.
func (r CreateUserRequest) Validate() error {
	var verr ValidationError
	if strings.TrimSpace(r.NIK) == "" {
		verr.add("nik", "is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		verr.add("name", "is required")
	}
	if !ValidRole(r.Role) {
		verr.add("role", fmt.Sprintf("unknown role %q", r.Role))
	}
	if r.Specialization != "" && !ValidSpecialization(r.Specialization) {
		verr.add("specialization", fmt.Sprintf("unknown specialization %q", r.Specialization))
	}
	if r.Specialization != "" && r.Role != RoleEngineer && r.Role != RoleAssistantEngineer {
		verr.add("specialization", "only engineering roles carry a specialization")
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		verr.add("email", "is not a valid address")
	}
	if err := ValidatePasswordStrength(r.Password); err != nil {
		verr.add("password", err.Error())
	}
	return verr.orNil()
}

// UpdateUserRequest is the closed payload for PATCH /users/:id. Nil fields
// are omitted from the wire and left untouched by the server.
type UpdateUserRequest struct {
	NIK            *string         `json:"nik,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Name           *string         `json:"name,omitempty"`
	Password       *string         `json:"password,omitempty"`
	Role           *Role           `json:"role,omitempty"`
	Specialization *Specialization `json:"specialization,omitempty"`
	IsActive       *bool           `json:"isActive,omitempty"`
}

// Validate checks the populated fields of the request.
func (r UpdateUserRequest) Validate() error {
	var verr ValidationError
	if r.NIK != nil && strings.TrimSpace(*r.NIK) == "" {
		verr.add("nik", "cannot be empty")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		verr.add("name", "cannot be empty")
	}
	if r.Role != nil && !ValidRole(*r.Role) {
		verr.add("role", fmt.Sprintf("unknown role %q", *r.Role))
	}
	if r.Specialization != nil && *r.Specialization != "" && !ValidSpecialization(*r.Specialization) {
		verr.add("specialization", fmt.Sprintf("unknown specialization %q", *r.Specialization))
	}
	if r.Email != nil && *r.Email != "" && !strings.Contains(*r.Email, "@") {
		verr.add("email", "is not a valid address")
	}
	if r.Password != nil {
		if err := ValidatePasswordStrength(*r.Password); err != nil {
			verr.add("password", err.Error())
		}
	}
	return verr.orNil()
}

// ValidatePasswordStrength checks if a password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

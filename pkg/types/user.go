package types

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// FilterAll disables a status or role filter.
const FilterAll = "all"

var validRoles = map[string]bool{RoleAdmin: true, RoleUser: true}

var validStatuses = map[string]bool{StatusActive: true, StatusInactive: true}

// AdminEmail is the account edited through the profile operations.
const AdminEmail = "admin@example.com"

// User is an account managed by the console.
type User struct {
	ID        int       `json:"id" yaml:"id"`                                     // Numeric identity, max+1 on create.
	Name      string    `json:"name" yaml:"name"`                                 // Display name (required).
	Email     string    `json:"email" yaml:"email"`                               // Unique, compared case-insensitively.
	Role      string    `json:"role" yaml:"role"`                                 // RoleAdmin or RoleUser.
	Status    string    `json:"status" yaml:"status"`                             // StatusActive or StatusInactive.
	AvatarURL string    `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"` // Derived from the role on create.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Key returns the user identity as used by selection and expansion.
func (u User) Key() string { return fmt.Sprint(u.ID) }

// CreateUserRequest carries the fields of a new user. Status defaults to
// active when empty.
type CreateUserRequest struct {
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Role   string `json:"role" yaml:"role"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Validate checks required fields and enumerations.
func (r CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if !validRoles[r.Role] {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, r.Role)
	}
	if r.Status != "" && !validStatuses[r.Status] {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, r.Status)
	}
	return nil
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" yaml:"name,omitempty"`
	Email  *string `json:"email,omitempty" yaml:"email,omitempty"`
	Role   *string `json:"role,omitempty" yaml:"role,omitempty"`
	Status *string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Validate checks the fields that are set.
func (r UpdateUserRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Role != nil && !validRoles[*r.Role] {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, *r.Role)
	}
	if r.Status != nil && !validStatuses[*r.Status] {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *r.Status)
	}
	return nil
}

// Apply merges the set fields into u.
func (r UpdateUserRequest) Apply(u *User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
	if r.Status != nil {
		u.Status = *r.Status
	}
}

// UserQuery adds the status and role filters of the user list. Empty or
// FilterAll disables a filter.
type UserQuery struct {
	Query
	Status string `json:"status,omitempty"`
	Role   string `json:"role,omitempty"`
}

// ValidStatus reports whether s is a known user status.
func ValidStatus(s string) bool { return validStatuses[s] }

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	return nil
}

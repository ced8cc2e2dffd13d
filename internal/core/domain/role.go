package domain

import "fmt"

// Role is the closed set of application roles shared by both services.
// Conversion from the wire string happens once, at the HTTP boundary,
// via ParseRole; everything downstream carries the typed value.
type Role string

const (
	RoleHRAdmin  Role = "HRAdmin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// ParseRole converts a wire string into a Role. Any string outside the
// closed set is rejected.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHRAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleHRAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

package enums

import "fmt"

// UserRole distinguishes back-office admins from field sales reps.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleRep   UserRole = "rep"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleRep,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role grants back-office access.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

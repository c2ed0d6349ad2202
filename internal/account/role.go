package account

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is the closed set of account roles. "pending" marks a user whose
// vendor request has not been reviewed by an admin yet.
type Role string

const (
	RoleUser    Role = "user"
	RolePending Role = "pending"
	RoleVendor  Role = "vendor"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a role string coming from clients or storage.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RolePending, RoleVendor, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

func (r Role) String() string { return string(r) }

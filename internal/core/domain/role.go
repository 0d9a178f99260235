package domain

import "errors"

// Role is the closed set of roles a user can hold. Roles are fixed at
// compile time; there is no hierarchy between them.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Authority strings are the canonical external representation of a role.
// They appear in tokens and in per-route access declarations.
const (
	AuthorityAdmin = "ROLE_ADMIN"
	AuthorityUser  = "ROLE_USER"
)

var ErrInvalidRole = errors.New("invalid role")

// Authority returns the authority string for the role.
func (r Role) Authority() string {
	switch r {
	case RoleAdmin:
		return AuthorityAdmin
	default:
		return AuthorityUser
	}
}

// ParseRole resolves an external role name against the declared role
// identifiers. The match is exact: no case folding, no aliases, and never a
// default role for unrecognised input.
func ParseRole(name string) (Role, error) {
	switch name {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleUser):
		return RoleUser, nil
	default:
		return "", ErrInvalidRole
	}
}

// RoleFromAuthority resolves an authority string back to its Role. An
// unknown authority is an error; callers must treat it as unparseable rather
// than falling back to a lower-privileged role.
func RoleFromAuthority(authority string) (Role, error) {
	switch authority {
	case AuthorityAdmin:
		return RoleAdmin, nil
	case AuthorityUser:
		return RoleUser, nil
	default:
		return "", ErrInvalidRole
	}
}

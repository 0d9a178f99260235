package domain

import (
	"errors"
	"time"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Authorization outcomes. ErrUnauthorized is denial for a request with no
// principal, ErrForbidden for a principal whose authority does not match the
// route's declaration. The HTTP boundary renders both identically; the
// distinction exists for logs and metrics only.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// User is the persisted account record owned by the user store. It is
// written once at signup and only ever read afterwards.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is the authenticated identity attached to a request after its
// token passed signature and expiry verification. It lives for exactly one
// request and is never constructed any other way.
type Principal struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Authority returns the authority string the principal carries, used by the
// access-control check against a route's declared authorities.
func (p Principal) Authority() string {
	return p.Role.Authority()
}

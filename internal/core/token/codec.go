package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sessionless/auth-api/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Verification failures are kept as distinct values so callers can log and
// count them; the HTTP boundary collapses all three into one outcome.
var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
)

// claims is the full claim set embedded in a session token. The token is the
// sole source of the request's identity: everything authorization needs,
// including the role authority, travels inside it.
type claims struct {
	Email     string `json:"email"`
	Authority string `json:"authority"`
	jwt.RegisteredClaims
}

// Codec creates and verifies signed session tokens (HS256). The signing key
// is loaded once at startup and never mutated, so a single Codec is safe for
// concurrent use across requests.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec signing with secret. If ttl <= 0 the default of
// 24h is applied.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime applied to issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token binding the user's id, email, and role authority, with
// issued-at = now and expiry = now + TTL.
func (c *Codec) Issue(userID int64, email string, role domain.Role, now time.Time) (string, error) {
	cl := claims{
		Email:     email,
		Authority: role.Authority(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
}

// ParseAndVerify checks the token's signature and expiry against now and
// reconstructs the Principal from its claims. It performs no I/O. Failures
// are ErrBadSignature for a wrong key or tampered payload, ErrExpired for a
// token past its expiry, and ErrMalformed for anything structurally invalid,
// including an authority that maps to no declared role.
func (c *Codec) ParseAndVerify(raw string, now time.Time) (domain.Principal, error) {
	var cl claims
	tkn, err := jwt.ParseWithClaims(raw, &cl,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Principal{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Principal{}, ErrBadSignature
		default:
			return domain.Principal{}, ErrMalformed
		}
	}
	if !tkn.Valid {
		return domain.Principal{}, ErrMalformed
	}

	userID, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return domain.Principal{}, ErrMalformed
	}

	// An unknown authority means the token cannot be mapped to a declared
	// role. Treat it as unparseable, never as a low-privilege fallback.
	role, err := domain.RoleFromAuthority(cl.Authority)
	if err != nil {
		return domain.Principal{}, ErrMalformed
	}

	return domain.Principal{UserID: userID, Email: cl.Email, Role: role}, nil
}

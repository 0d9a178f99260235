package ports

import (
	"time"

	"github.com/sessionless/auth-api/internal/core/domain"
)

// TokenCodec creates and verifies the signed session tokens that carry a
// user's identity and role between requests.
type TokenCodec interface {
	Issue(userID int64, email string, role domain.Role, now time.Time) (string, error)
	ParseAndVerify(raw string, now time.Time) (domain.Principal, error)
}

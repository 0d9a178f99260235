package ports

import (
	"context"

	"github.com/sessionless/auth-api/internal/core/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, email, roleName string) (string, *domain.User, error)
	SignIn(ctx context.Context, email string) (string, *domain.User, error)
}

package service

import (
	"context"
	"time"

	"github.com/sessionless/auth-api/internal/core/domain"
	"github.com/sessionless/auth-api/internal/core/ports"
)

// AuthService implements token issuance on signup and signin. It owns no
// state of its own: users live in the repository, identity lives in the
// issued token.
type AuthService struct {
	repo  ports.UserRepository
	codec ports.TokenCodec
	now   func() time.Time
}

func NewAuthService(repo ports.UserRepository, codec ports.TokenCodec) *AuthService {
	return &AuthService{repo: repo, codec: codec, now: time.Now}
}

// SignUp creates a new user with the given role and issues a token for it.
// The role name must exactly match a declared role identifier. Either the
// user row and the returned token both exist, or neither does: a failed
// role parse performs no store write, and a failed write issues no token.
func (s *AuthService) SignUp(ctx context.Context, email, roleName string) (string, *domain.User, error) {
	role, err := domain.ParseRole(roleName)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Email:     email,
		Role:      role,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	tkn, err := s.codec.Issue(created.ID, created.Email, created.Role, s.now())
	if err != nil {
		return "", nil, err
	}
	return tkn, created, nil
}

// SignIn issues a token for an existing user, looked up by email. Identity
// proof is the email's presence in the store; there is no credential check.
func (s *AuthService) SignIn(ctx context.Context, email string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	tkn, err := s.codec.Issue(user.ID, user.Email, user.Role, s.now())
	if err != nil {
		return "", nil, err
	}
	return tkn, user, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/sessionless/auth-api/internal/core/domain"
	"github.com/sessionless/auth-api/internal/core/token"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	nextID  int64
	creates int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.creates++
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.Email] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestService(repo *stubUserRepo) (*AuthService, *token.Codec) {
	codec := token.NewCodec("test-secret", time.Hour)
	return NewAuthService(repo, codec), codec
}

func TestAuthService_SignUp_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestService(repo)

	tkn, user, err := svc.SignUp(context.Background(), "alice@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user == nil || user.ID == 0 {
		t.Fatalf("expected persisted user with id, got %+v", user)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	principal, err := codec.ParseAndVerify(tkn, time.Now())
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if principal.UserID != user.ID || principal.Email != "alice@example.com" || principal.Role != domain.RoleAdmin {
		t.Fatalf("token claims do not match user: %+v", principal)
	}
}

func TestAuthService_SignUp_InvalidRole(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo)

	if _, _, err := svc.SignUp(context.Background(), "bob@example.com", "OVERLORD"); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	// A bad role name must never reach the store.
	if repo.creates != 0 {
		t.Fatalf("expected no store writes, got %d", repo.creates)
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo)

	if _, _, err := svc.SignUp(context.Background(), "bob@example.com", "USER"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, _, err := svc.SignUp(context.Background(), "bob@example.com", "ADMIN"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.users))
	}
	if repo.users["bob@example.com"].Role != domain.RoleUser {
		t.Fatalf("duplicate signup must not alter the stored user")
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestService(repo)

	_, created, err := svc.SignUp(context.Background(), "carol@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	tkn, user, err := svc.SignIn(context.Background(), "carol@example.com")
	if err != nil {
		t.Fatalf("signin failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("signin returned a different user: %+v", user)
	}

	principal, err := codec.ParseAndVerify(tkn, time.Now())
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if principal.UserID != created.ID || principal.Role != domain.RoleAdmin {
		t.Fatalf("token claims do not match user: %+v", principal)
	}
}

func TestAuthService_SignIn_UserNotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo)

	if _, _, err := svc.SignIn(context.Background(), "ghost@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

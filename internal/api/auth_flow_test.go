package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sessionless/auth-api/internal/api/handler"
	"github.com/sessionless/auth-api/internal/api/middleware"
	"github.com/sessionless/auth-api/internal/core/domain"
	"github.com/sessionless/auth-api/internal/core/service"
	"github.com/sessionless/auth-api/internal/core/token"
)

// memoryUserRepo implements ports.UserRepository in memory so the full
// request pipeline can run without a database.
type memoryUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	created := *user
	created.ID = r.nextID
	r.users[created.Email] = &created
	return &created, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

// newTestServer assembles the same pipeline NewRouter builds, with the user
// store swapped for an in-memory one and the rate limiter left out.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Validator = handler.NewValidator()

	codec := token.NewCodec("test-secret", time.Hour)
	repo := newMemoryUserRepo()
	authService := service.NewAuthService(repo, codec)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(repo)

	e.Use(middleware.Authenticate(codec, zerolog.Nop()))

	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/signin", authHandler.Signin)
	e.GET("/me", userHandler.Me,
		middleware.RequireAuthority(domain.AuthorityAdmin, domain.AuthorityUser))
	e.GET("/admin/users", userHandler.Lookup,
		middleware.RequireAuthority(domain.AuthorityAdmin))
	e.GET("/open", userHandler.Open)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doWithToken(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signupToken(t *testing.T, e *echo.Echo, email, role string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/auth/signup", `{"email":"`+email+`","role":"`+role+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup(%s, %s): expected 200, got %d: %s", email, role, rec.Code, rec.Body.String())
	}
	bearer := rec.Header().Get(echo.HeaderAuthorization)
	if bearer == "" {
		t.Fatalf("signup returned no Authorization header")
	}
	return bearer
}

func TestAuthFlow_AdminRoute(t *testing.T) {
	e := newTestServer(t)

	adminToken := signupToken(t, e, "admin@x.com", "ADMIN")
	userToken := signupToken(t, e, "user@x.com", "USER")

	// Admin token passes the admin-only route.
	if rec := doWithToken(e, "/admin/users?email=user@x.com", adminToken); rec.Code != http.StatusOK {
		t.Fatalf("admin request: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// User token is denied: exact match only, no hierarchy and no fallback.
	if rec := doWithToken(e, "/admin/users?email=user@x.com", userToken); rec.Code != http.StatusForbidden {
		t.Fatalf("user request: expected 403, got %d", rec.Code)
	}

	// No credential at all is denied with the same status.
	if rec := doWithToken(e, "/admin/users?email=user@x.com", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous request: expected 403, got %d", rec.Code)
	}
}

func TestAuthFlow_SigninIssuesUsableToken(t *testing.T) {
	e := newTestServer(t)
	signupToken(t, e, "admin@x.com", "ADMIN")

	rec := doJSON(e, http.MethodPost, "/auth/signin", `{"email":"admin@x.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	bearer := rec.Header().Get(echo.HeaderAuthorization)

	if rec := doWithToken(e, "/admin/users?email=admin@x.com", bearer); rec.Code != http.StatusOK {
		t.Fatalf("request with signin token: expected 200, got %d", rec.Code)
	}
}

func TestAuthFlow_OpenRoute(t *testing.T) {
	e := newTestServer(t)

	// Open routes need no credential.
	if rec := doWithToken(e, "/open", ""); rec.Code != http.StatusOK {
		t.Fatalf("open route without token: expected 200, got %d", rec.Code)
	}

	// A tampered token does not hurt on an open route either.
	if rec := doWithToken(e, "/open", "Bearer garbage"); rec.Code != http.StatusOK {
		t.Fatalf("open route with bad token: expected 200, got %d", rec.Code)
	}
}

func TestAuthFlow_MeReflectsTokenIdentity(t *testing.T) {
	e := newTestServer(t)
	userToken := signupToken(t, e, "user@x.com", "USER")

	rec := doWithToken(e, "/me", userToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("/me: expected 200, got %d", rec.Code)
	}

	var principal domain.Principal
	if err := json.Unmarshal(rec.Body.Bytes(), &principal); err != nil {
		t.Fatalf("unmarshal principal: %v", err)
	}
	if principal.Email != "user@x.com" || principal.Role != domain.RoleUser {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAuthFlow_SignupErrors(t *testing.T) {
	e := newTestServer(t)

	// Unknown role name is a client error and leaves the store untouched.
	rec := doJSON(e, http.MethodPost, "/auth/signup", `{"email":"a@x.com","role":"OVERLORD"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid role: expected 400, got %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodPost, "/auth/signin", `{"email":"a@x.com"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("signin after failed signup: expected 404, got %d", rec.Code)
	}

	// Duplicate email conflicts.
	signupToken(t, e, "b@x.com", "USER")
	rec = doJSON(e, http.MethodPost, "/auth/signup", `{"email":"b@x.com","role":"ADMIN"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", rec.Code)
	}
}

func TestAuthFlow_ExpiredAndForgedCollapseToOneOutcome(t *testing.T) {
	e := newTestServer(t)
	signupToken(t, e, "admin@x.com", "ADMIN")

	expired, err := token.NewCodec("test-secret", time.Hour).
		Issue(1, "admin@x.com", domain.RoleAdmin, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	forged, err := token.NewCodec("wrong-secret", time.Hour).
		Issue(1, "admin@x.com", domain.RoleAdmin, time.Now())
	if err != nil {
		t.Fatalf("issue forged token: %v", err)
	}

	recExpired := doWithToken(e, "/me", "Bearer "+expired)
	recForged := doWithToken(e, "/me", "Bearer "+forged)

	if recExpired.Code != http.StatusForbidden || recForged.Code != http.StatusForbidden {
		t.Fatalf("expected 403/403, got %d/%d", recExpired.Code, recForged.Code)
	}
	// The response must not let a caller tell the two failures apart.
	if recExpired.Body.String() != recForged.Body.String() {
		t.Fatalf("expired and forged responses differ: %q vs %q",
			recExpired.Body.String(), recForged.Body.String())
	}
}

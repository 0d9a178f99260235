package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sessionless/auth-api/internal/api/metrics"
	"github.com/sessionless/auth-api/internal/core/domain"
	"github.com/sessionless/auth-api/internal/core/ports"
)

// bearerScheme prefixes the issued token in the Authorization response
// header, matching the scheme the Authenticate middleware expects back.
const bearerScheme = "Bearer "

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type signinRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// Signup creates a new user and returns its first session token.
//
// @Summary      Sign up a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      200   {object}  authResponse
// @Header       200   {string}  Authorization  "Bearer token"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tkn, user, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Role)
	if err != nil {
		metrics.IssuanceErrorsTotal.WithLabelValues("signup", issuanceFailureReason(err)).Inc()
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("signup").Inc()
	c.Response().Header().Set(echo.HeaderAuthorization, bearerScheme+tkn)
	return c.JSON(http.StatusOK, authResponse{Token: tkn, User: user})
}

// Signin issues a fresh session token for an existing user.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Signin details"
// @Success      200   {object}  authResponse
// @Header       200   {string}  Authorization  "Bearer token"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tkn, user, err := h.authService.SignIn(c.Request().Context(), req.Email)
	if err != nil {
		metrics.IssuanceErrorsTotal.WithLabelValues("signin", issuanceFailureReason(err)).Inc()
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("signin").Inc()
	c.Response().Header().Set(echo.HeaderAuthorization, bearerScheme+tkn)
	return c.JSON(http.StatusOK, authResponse{Token: tkn, User: user})
}

func issuanceFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, domain.ErrUserExists):
		return "duplicate_email"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	default:
		return "internal"
	}
}

package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sessionless/auth-api/internal/api/middleware"
	"github.com/sessionless/auth-api/internal/core/domain"
)

// currentPrincipal returns the Principal the Authenticate middleware stored
// on the context. Handlers behind RequireAuthority always have one; a
// missing principal here means the route was wired without its access
// declaration, so deny rather than guess.
func currentPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return principal, nil
}

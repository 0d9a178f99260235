package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sessionless/auth-api/internal/core/ports"
)

type UserHandler struct {
	repo ports.UserRepository
}

func NewUserHandler(repo ports.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// Me returns the identity of the calling principal, reconstructed entirely
// from the verified token. No store read happens here.
//
// @Summary      Current principal
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.Principal
// @Failure      403  {object}  map[string]string
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, principal)
}

// Lookup finds a user account by email. Admin only.
//
// @Summary      Look up a user by email
// @Tags         users
// @Produce      json
// @Param        email  query     string  true  "Email to look up"
// @Success      200    {object}  domain.User
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) Lookup(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	user, err := h.repo.FindByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Open is an unprotected probe route: it succeeds for any caller,
// authenticated or not.
//
// @Summary      Open route
// @Tags         users
// @Success      200
// @Router       /open [get]
func (h *UserHandler) Open(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

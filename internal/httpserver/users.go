package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/internal/permission"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/internal/transport"
)

var listUsers = permission.NewSet(permission.Admin, permission.PermissionUpdate)

type UsersHTTP struct {
	Gateway *mutation.Gateway
	Repo    *repo.GormRepo
}

// Me returns the signed-in user, or null for an anonymous caller.
func (h *UsersHTTP) Me(c echo.Context) error {
	caller := callerFrom(c)
	if !caller.Authenticated() {
		return c.JSON(http.StatusOK, nil)
	}
	user, err := h.Repo.UserByID(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) List(c echo.Context) error {
	caller := callerFrom(c)
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if err := permission.Require(caller.Permissions, listUsers); err != nil {
		return err
	}

	users, err := h.Repo.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UsersHTTP) UpdatePermissions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.UpdatePermissionsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.Gateway.UpdatePermissionLabels(c.Request().Context(), callerFrom(c), id, req.Permissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

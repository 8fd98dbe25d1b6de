package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/internal/transport"
	"github.com/Skotchmaster/sickfits/pkg/logging"
)

type AuthHTTP struct {
	Gateway *mutation.Gateway
	Cookies CookieConfig
}

func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		logging.FromContext(c.Request().Context()).Warn("bind_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(req)
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	var req transport.SignUpRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	sess, err := h.Gateway.SignUp(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.Cookies.session(sess.Token))
	return c.JSON(http.StatusCreated, sess.User)
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	var req transport.SignInRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	sess, err := h.Gateway.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.Cookies.session(sess.Token))
	return c.JSON(http.StatusOK, sess.User)
}

func (h *AuthHTTP) SignOut(c echo.Context) error {
	ack := h.Gateway.SignOut(c.Request().Context())
	c.SetCookie(h.Cookies.cleared())
	return c.JSON(http.StatusOK, ack)
}

func (h *AuthHTTP) RequestReset(c echo.Context) error {
	var req transport.RequestResetRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ack, err := h.Gateway.RequestReset(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ack)
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	var req transport.ResetPasswordRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	sess, err := h.Gateway.ResetPassword(c.Request().Context(), req.ResetToken, req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}

	c.SetCookie(h.Cookies.session(sess.Token))
	return c.JSON(http.StatusOK, sess.User)
}

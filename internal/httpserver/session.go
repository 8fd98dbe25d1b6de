package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/pkg/logging"
)

const (
	SessionCookie = "token"
	sessionMaxAge = 365 * 24 * time.Hour

	callerKey = "caller"
)

type CookieConfig struct {
	Secure bool
}

func (cc CookieConfig) session(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		Expires:  time.Now().Add(sessionMaxAge),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (cc CookieConfig) cleared() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Identity resolves the session cookie into a mutation.Caller for every
// request. Bad or stale cookies leave the request anonymous.
func Identity(g *mutation.Gateway) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if ck, err := c.Cookie(SessionCookie); err == nil {
				token = ck.Value
			}

			ctx := c.Request().Context()
			caller, err := g.ResolveCaller(ctx, token)
			if err != nil {
				return err
			}
			if caller.Authenticated() {
				l := logging.FromContext(ctx).With("user_id", caller.UserID)
				c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
			}

			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

func callerFrom(c echo.Context) mutation.Caller {
	caller, _ := c.Get(callerKey).(mutation.Caller)
	return caller
}

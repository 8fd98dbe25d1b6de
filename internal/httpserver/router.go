package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/internal/search"
	"github.com/Skotchmaster/sickfits/pkg/db"
	"github.com/Skotchmaster/sickfits/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/sickfits/pkg/middleware/logging"
)

type Deps struct {
	Logger  *slog.Logger
	DB      *gorm.DB
	Gateway *mutation.Gateway
	Repo    *repo.GormRepo
	Index   search.Index
	Cookies CookieConfig

	// CSRF enables double-submit protection on unsafe methods when set.
	CSRF *csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(d.Logger, "/health/live", "/health/ready"))
	e.Use(middleware.Recover())
	if d.CSRF != nil {
		e.Use(csrf.Middleware(*d.CSRF))
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	auth := &AuthHTTP{Gateway: d.Gateway, Cookies: d.Cookies}
	items := &ItemsHTTP{Gateway: d.Gateway, Repo: d.Repo, Index: d.Index}
	users := &UsersHTTP{Gateway: d.Gateway, Repo: d.Repo}
	cart := &CartHTTP{Gateway: d.Gateway}

	api := e.Group("", Identity(d.Gateway))

	api.POST("/signup", auth.SignUp)
	api.POST("/signin", auth.SignIn)
	api.POST("/signout", auth.SignOut)
	api.POST("/request-reset", auth.RequestReset)
	api.POST("/reset-password", auth.ResetPassword)

	api.GET("/items", items.List)
	api.GET("/items/search", items.Search)
	api.GET("/items/:id", items.Get)
	api.POST("/items", items.Create)
	api.PATCH("/items/:id", items.Update)
	api.DELETE("/items/:id", items.Delete)

	api.GET("/me", users.Me)
	api.GET("/users", users.List)
	api.PUT("/users/:id/permissions", users.UpdatePermissions)

	api.GET("/cart", cart.Get)
	api.POST("/cart", cart.Add)
}

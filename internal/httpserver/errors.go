package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/search"
	"github.com/Skotchmaster/sickfits/pkg/logging"
)

var statusByCode = map[string]int{
	"UNAUTHENTICATED":          http.StatusUnauthorized,
	"FORBIDDEN":                http.StatusForbidden,
	"NOT_FOUND":                http.StatusNotFound,
	"INVALID_CREDENTIALS":      http.StatusUnauthorized,
	"MISMATCH":                 http.StatusBadRequest,
	"INVALID_OR_EXPIRED_TOKEN": http.StatusBadRequest,
	"DUPLICATE":                http.StatusConflict,
	"VALIDATION":               http.StatusBadRequest,
}

// StatusOf maps an error of the domain taxonomy onto an HTTP status.
func StatusOf(err error) int {
	if s, ok := statusByCode[domain.Code(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrorHandler writes every failure as {code, message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		body   *domain.Error
		he     *echo.HTTPError
	)
	switch {
	case errors.As(err, &he):
		status = he.Code
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		body = &domain.Error{Code: http.StatusText(he.Code), Message: msg}
	case errors.Is(err, search.ErrDisabled):
		status = http.StatusServiceUnavailable
		body = &domain.Error{Code: "UNAVAILABLE", Message: err.Error()}
	default:
		status = StatusOf(err)
		body = domain.Describe(err)
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("request_failed", "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", err)
	}
}

// Validator adapts go-playground/validator to echo.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (cv *Validator) Validate(i any) error {
	if err := cv.v.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrValidation, verrs[0].Error())
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

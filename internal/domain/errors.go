package domain

import "errors"

var (
	ErrUnauthenticated       = errors.New("you must be signed in to do this")
	ErrForbidden             = errors.New("you don't have permission to do this")
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredentials    = errors.New("invalid password")
	ErrMismatch              = errors.New("passwords don't match")
	ErrInvalidOrExpiredToken = errors.New("this token is either invalid or expired")
	ErrDuplicate             = errors.New("already exists")
	ErrValidation            = errors.New("validation")
	ErrInfrastructure        = errors.New("internal server error")
)

// Error is the structured form of a failure returned to callers.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthenticated, "UNAUTHENTICATED"},
	{ErrForbidden, "FORBIDDEN"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrInvalidCredentials, "INVALID_CREDENTIALS"},
	{ErrMismatch, "MISMATCH"},
	{ErrInvalidOrExpiredToken, "INVALID_OR_EXPIRED_TOKEN"},
	{ErrDuplicate, "DUPLICATE"},
	{ErrValidation, "VALIDATION"},
}

// Code returns the taxonomy code of err, or INTERNAL for anything outside it.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL"
}

// Describe converts err into its user-visible form. Infrastructure failures
// never expose their cause.
func Describe(err error) *Error {
	code := Code(err)
	if code == "INTERNAL" {
		return &Error{Code: code, Message: ErrInfrastructure.Error()}
	}
	return &Error{Code: code, Message: err.Error()}
}

package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Common application errors raised by services and mapped to HTTP responses
// at the handler boundary. Internal causes are wrapped around these with %w
// and never leak to the caller.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateContentKey = errors.New("content key already exists")
	ErrDuplicatePageURL    = errors.New("page url already exists")
	ErrValidation          = errors.New("validation failed")
)

// RespondError maps a service error to the standard error envelope. Anything
// outside the known taxonomy is reported as a 500 with the detail withheld.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrUserNotFound):
		Error(c, 404, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrDuplicateEmail):
		Error(c, 409, "DUPLICATE_EMAIL", "Email already exists")
	case errors.Is(err, ErrDuplicateContentKey):
		Error(c, 409, "DUPLICATE_CONTENT_KEY", "Content with this key already exists")
	case errors.Is(err, ErrDuplicatePageURL):
		Error(c, 409, "DUPLICATE_PAGE_URL", "SEO metadata for this URL already exists")
	case errors.Is(err, ErrNotFound):
		Error(c, 404, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrValidation):
		Error(c, 400, "VALIDATION_ERROR", err.Error())
	default:
		Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}

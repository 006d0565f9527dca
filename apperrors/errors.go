// Package apperrors defines the business error taxonomy and its mapping onto
// HTTP responses. Handlers and core order logic return *Error values; Respond
// turns anything else into an opaque 500.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is a business failure that knows which status class it belongs to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, format, args...)
}

// PaymentRequired signals a declined (retryable) payment attempt.
func PaymentRequired(format string, args ...any) *Error {
	return New(http.StatusPaymentRequired, format, args...)
}

func TooManyRequests(format string, args ...any) *Error {
	return New(http.StatusTooManyRequests, format, args...)
}

// ServiceUnavailable marks transient store failures (lock timeouts,
// connectivity); callers may retry.
func ServiceUnavailable(format string, args ...any) *Error {
	return New(http.StatusServiceUnavailable, format, args...)
}

var devMode bool

// SetDevMode controls whether internal error detail leaks into 500 responses.
func SetDevMode(on bool) { devMode = on }

// Respond writes err as the standard {success:false, message} envelope.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
		return
	}

	body := gin.H{"success": false, "message": "Internal Server Error"}
	if devMode {
		body["detail"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

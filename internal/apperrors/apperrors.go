package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is a business error carrying the HTTP status it should surface as.
// Handlers map it to a `{"error": message}` JSON body at the request
// boundary; anything that is not an *Error becomes a 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports malformed or missing input (400).
func Validation(format string, args ...interface{}) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation (409).
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Status: fiber.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a missing, invalid, or expired credential (401).
func Unauthorized(format string, args ...interface{}) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that no matching record exists (404).
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// StatusOf returns the HTTP status for err, or 500 when err carries none.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return fiber.StatusInternalServerError
}

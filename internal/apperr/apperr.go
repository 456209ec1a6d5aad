// Package apperr defines the error taxonomy surfaced to API consumers.
// Domain packages wrap these sentinels with context; the API layer maps
// them to HTTP status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced entity no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the request carried no valid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the credential lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrPayloadTooLarge means an upload exceeded the size cap.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUnsupportedMedia means an upload had a disallowed content type.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// ValidationError reports a missing or invalid required field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

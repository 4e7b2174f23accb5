package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain services. The single boundary mapper in
// pkg/response converts these to HTTP statuses; services never pick status
// codes themselves.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access denied: insufficient permissions")
	ErrConflict           = errors.New("resource state conflict")

	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
	ErrHashFormat   = errors.New("malformed password digest")
)

// ValidationError carries one or more field-level validation messages.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return fmt.Sprintf("validation failed: %d errors", len(e.Messages))
}

// Validation builds a ValidationError from one or more messages.
func Validation(messages ...string) error {
	return &ValidationError{Messages: messages}
}

// AsValidation extracts a *ValidationError from err's chain, if present.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

package response

import (
	"errors"
	"net/http"
	"time"

	"leaveflow/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform error envelope returned on every rejected request.
type ErrorBody struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Timestamp  string   `json:"timestamp"`
	Errors     []string `json:"errors,omitempty"`
}

// Error builds the envelope for a status code and message.
func Error(statusCode int, message string, details ...string) ErrorBody {
	return ErrorBody{
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Errors:     details,
	}
}

// AbortWithError maps a domain error to its HTTP status and writes the
// envelope. Unrecognized errors become a generic 500 — internal detail
// (SQL, stack traces, secrets) must never reach the response body.
func AbortWithError(c *gin.Context, err error) {
	status, message, details := classify(err)
	c.AbortWithStatusJSON(status, Error(status, message, details...))
}

func classify(err error) (int, string, []string) {
	if ve, ok := apperr.AsValidation(err); ok {
		return http.StatusBadRequest, "validation failed", ve.Messages
	}

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, apperr.ErrDuplicateEmail):
		return http.StatusConflict, apperr.ErrDuplicateEmail.Error(), nil
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized, apperr.ErrInvalidCredentials.Error(), nil
	case errors.Is(err, apperr.ErrUnauthenticated),
		errors.Is(err, apperr.ErrTokenInvalid),
		errors.Is(err, apperr.ErrTokenExpired):
		return http.StatusUnauthorized, err.Error(), nil
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, apperr.ErrForbidden.Error(), nil
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, err.Error(), nil
	}

	return http.StatusInternalServerError, "internal server error", nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/generation"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrQuotaExceeded indicates the caller used up the free daily generations
type ErrQuotaExceeded struct {
	Limit   int
	ResetAt time.Time
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("daily free limit of %d generations reached", e.Limit)
}

// ErrUnavailable indicates a feature that is not configured on this server
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		quotaErr      *ErrQuotaExceeded
		unavailable   *ErrUnavailable
		providerErr   *generation.ProviderError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &quotaErr):
		return http.StatusTooManyRequests
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts a request Validate error into an ErrValidation
// naming the first offending field
func validationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on '%s' rule", fe.Tag()),
		}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}

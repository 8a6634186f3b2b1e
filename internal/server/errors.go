package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/evidence-matcher/internal/cache"
	"github.com/jonathan/evidence-matcher/internal/evidence"
	"github.com/jonathan/evidence-matcher/internal/schemas"
)

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a backing service is not configured
type ErrUnavailable struct {
	Service string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Service)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		validation  *ErrValidation
		unavailable *ErrUnavailable
		schemaErr   *schemas.ValidationError
		configErr   *evidence.ConfigError
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, cache.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &schemaErr), errors.As(err, &configErr):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/evidence-matcher/internal/cache"
	"github.com/jonathan/evidence-matcher/internal/schemas"
	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "history", ID: "abc"}
	assert.Equal(t, "history not found: abc", err.Error())
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "projects", Message: "required"}
	assert.Equal(t, "validation error: projects - required", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &ErrNotFound{Resource: "history"}, http.StatusNotFound},
		{"cache miss", fmt.Errorf("lookup: %w", cache.ErrNotFound), http.StatusNotFound},
		{"validation", &ErrValidation{}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("decode: %w", &ErrValidation{}), http.StatusBadRequest},
		{"schema", &schemas.ValidationError{}, http.StatusBadRequest},
		{"unavailable", &ErrUnavailable{Service: "database"}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-studio/internal/intake"
)

// ErrNotFound is returned when a requested resource does not exist
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned when a backing store is not configured
var ErrUnavailable = errors.New("service unavailable")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		notPDF     *intake.ValidationError
		parse      *intake.ParseError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &notPDF):
		return http.StatusBadRequest
	case errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

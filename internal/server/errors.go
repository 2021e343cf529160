package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/days-to-hire/internal/db"
)

// ErrStatsNotFound indicates no statistics row exists for the requested pair
type ErrStatsNotFound struct {
	StandardJobID string
	CountryCode   *string
}

func (e *ErrStatsNotFound) Error() string {
	if e.CountryCode == nil {
		return fmt.Sprintf("days to hire statistics not found for %s", e.StandardJobID)
	}
	return fmt.Sprintf("days to hire statistics not found for %s in %s", e.StandardJobID, *e.CountryCode)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// newValidationError converts the first validator failure into an ErrValidation.
func newValidationError(err error) *ErrValidation {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fieldNames[fe.Field()]
		if field == "" {
			field = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			return &ErrValidation{Field: field, Message: "is required"}
		case "max":
			return &ErrValidation{Field: field, Message: "is too long"}
		}
		return &ErrValidation{Field: field, Message: fmt.Sprintf("failed %s check", fe.Tag())}
	}
	return &ErrValidation{Field: "query", Message: err.Error()}
}

// fieldNames maps struct fields to their query parameter names
var fieldNames = map[string]string{
	"StandardJobID": "standard_job_id",
	"CountryCode":   "country_code",
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *ErrStatsNotFound
	var validation *ErrValidation
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case db.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

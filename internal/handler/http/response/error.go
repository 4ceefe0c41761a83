package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Input errors
	case errors.Is(err, overtime.ErrInvalidTimeFormat):
		BadRequest(w, err.Error(), map[string]string{"time": "expected HH:MM"})
	case errors.Is(err, overtime.ErrInvalidDateFormat):
		BadRequest(w, err.Error(), map[string]string{"date": "expected YYYY-MM-DD"})
	case errors.Is(err, overtime.ErrInvalidMonthFormat):
		BadRequest(w, err.Error(), map[string]string{"month": "expected YYYY-MM"})
	case errors.Is(err, overtime.ErrEmptyName):
		BadRequest(w, "Employee name is required", nil)
	case errors.Is(err, overtime.ErrEmptyInput):
		BadRequest(w, "No valid scan rows found in input", nil)
	case errors.Is(err, overtime.ErrUnsupportedExportFormat):
		BadRequest(w, "Unsupported export format", map[string]string{"format": "expected pdf or xlsx"})

	// Lookup errors
	case errors.Is(err, overtime.ErrEmployeeNotFound):
		NotFound(w, "Employee has no attendance records in this month")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

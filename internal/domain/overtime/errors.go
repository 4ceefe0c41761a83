package overtime

import (
	"errors"

	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/clocktime"
)

// Overtime domain errors
var (
	// Input errors
	ErrInvalidTimeFormat  = clocktime.ErrInvalidFormat
	ErrInvalidDateFormat  = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidMonthFormat = errors.New("invalid month format, expected YYYY-MM")
	ErrEmptyName          = errors.New("employee name is required")
	ErrEmptyInput         = errors.New("no valid rows found in input")

	// Lookup errors
	ErrEmployeeNotFound = errors.New("employee has no attendance records")

	// Export errors
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)

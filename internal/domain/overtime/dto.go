package overtime

import (
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/clocktime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/validator"
)

// ========================================
// IMPORT DTOs
// ========================================

type ImportTextRequest struct {
	Text string `json:"text"`
}

func (r *ImportTextRequest) Validate() error {
	if validator.IsEmpty(r.Text) {
		return validator.ValidationErrors{{
			Field:   "text",
			Message: "text is required",
		}}
	}
	return nil
}

type ImportObservationsRequest struct {
	Observations []Observation `json:"observations"`
}

func (r *ImportObservationsRequest) Validate() error {
	if len(r.Observations) == 0 {
		return validator.ValidationErrors{{
			Field:   "observations",
			Message: "at least one observation is required",
		}}
	}
	return nil
}

// RejectedObservation explains why an observation was not merged.
type RejectedObservation struct {
	Index       int         `json:"index"`
	Observation Observation `json:"observation"`
	Reason      string      `json:"reason"`
}

// MergeReport is what the reconciler tells the caller about a batch.
type MergeReport struct {
	Accepted int                   `json:"accepted"`
	Rejected []RejectedObservation `json:"rejected,omitempty"`
}

type ImportResponse struct {
	BatchID      string                `json:"batch_id"`
	Accepted     int                   `json:"accepted"`
	Rejected     []RejectedObservation `json:"rejected,omitempty"`
	SkippedLines int                   `json:"skipped_lines"`
	TotalRecords int                   `json:"total_records"`
}

// ========================================
// RECORD DTOs
// ========================================

// ManualEntryRequest is an authoritative correction of one employee's day.
type ManualEntryRequest struct {
	Name     string `json:"name"`
	Date     string `json:"date"`      // YYYY-MM-DD
	ClockIn  string `json:"clock_in"`  // HH:MM
	ClockOut string `json:"clock_out"` // HH:MM, optional
}

// Validate checks the entry and normalizes clock times to HH:MM.
func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	clockIn, err := clocktime.Normalize(r.ClockIn)
	clockInValid := err == nil
	if !clockInValid {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be in HH:MM format",
		})
	} else {
		r.ClockIn = clockIn
	}

	if !validator.IsEmpty(r.ClockOut) {
		clockOut, err := clocktime.Normalize(r.ClockOut)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be in HH:MM format",
			})
		} else if clockInValid && clockOut <= r.ClockIn {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be later than clock_in",
			})
		} else {
			r.ClockOut = clockOut
		}
	} else {
		r.ClockOut = ""
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordFilter struct {
	Month string `json:"month,omitempty"` // YYYY-MM
	Name  string `json:"name,omitempty"`
}

func (f *RecordFilter) Validate() error {
	if f.Month == "" {
		return nil
	}
	if _, ok := validator.IsValidMonth(f.Month); !ok {
		return validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		}}
	}
	return nil
}

type RecordResponse struct {
	Record Record `json:"record"`
	Result Result `json:"result"`
}

// ========================================
// CALCULATION DTOs
// ========================================

type CalculateRequest struct {
	Date     string `json:"date"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out"`
}

// ========================================
// EXPORT DTOs
// ========================================

type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

var exportFormats = []string{string(ExportPDF), string(ExportXLSX)}

type ExportRequest struct {
	Month  string       `json:"month"`
	Name   string       `json:"name"`
	Format ExportFormat `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	if r.Format == "" {
		r.Format = ExportPDF
	}
	if !validator.IsInSlice(string(r.Format), exportFormats) {
		return ErrUnsupportedExportFormat
	}
	return nil
}

// ExportFile is a rendered document ready to be written out.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

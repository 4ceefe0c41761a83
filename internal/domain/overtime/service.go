package overtime

import (
	"context"
)

// Service defines business logic for overtime recaps
type Service interface {
	// ImportText parses raw scan-log text and merges every valid line
	ImportText(ctx context.Context, req ImportTextRequest) (ImportResponse, error)

	// ImportObservations merges already extracted (name, date, time) triples
	ImportObservations(ctx context.Context, req ImportObservationsRequest) (ImportResponse, error)

	// UpsertRecord applies a manual correction, replacing clock-in and clock-out
	UpsertRecord(ctx context.Context, req ManualEntryRequest) (RecordResponse, error)

	// ListRecords returns stored records, optionally filtered by month and name
	ListRecords(ctx context.Context, filter RecordFilter) ([]RecordResponse, error)

	// ClearRecords removes the whole record collection
	ClearRecords(ctx context.Context) error

	// Calculate runs the overtime calculator on a single day
	Calculate(ctx context.Context, req CalculateRequest) (Result, error)

	// ListMonths returns every month with data, newest first
	ListMonths(ctx context.Context) ([]string, error)

	// ListEmployees returns the employee summaries of a month
	ListEmployees(ctx context.Context, month string) ([]EmployeeSummary, error)

	// GetMonthlyRecap returns the daily breakdown of one employee for one month
	GetMonthlyRecap(ctx context.Context, month string, name string) (MonthlyRecap, error)

	// ExportRecap renders the monthly recap as a PDF or XLSX document
	ExportRecap(ctx context.Context, req ExportRequest) (ExportFile, error)
}

// Change events published after the record collection is modified
const (
	EventRecordsImported = "records.imported"
	EventRecordUpdated   = "records.updated"
	EventRecordsCleared  = "records.cleared"
)

// Notifier receives change events
type Notifier interface {
	Publish(event string, data interface{}) int
}

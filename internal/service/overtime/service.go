package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/scanlog"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type OvertimeServiceImpl struct {
	// mu serializes load-modify-save cycles on the record collection
	mu sync.Mutex

	overtime.RecordRepository
	calculator *Calculator
	reconciler *Reconciler
	aggregator *Aggregator
	notifiers  []overtime.Notifier
}

func (s *OvertimeServiceImpl) notify(event string, data interface{}) {
	for _, n := range s.notifiers {
		n.Publish(event, data)
	}
}

// ImportText implements overtime.Service.
func (s *OvertimeServiceImpl) ImportText(ctx context.Context, req overtime.ImportTextRequest) (overtime.ImportResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.ImportResponse{}, err
	}

	parsed := scanlog.Parse(req.Text)
	if len(parsed.Observations) == 0 {
		return overtime.ImportResponse{}, overtime.ErrEmptyInput
	}

	resp, err := s.mergeAndSave(ctx, parsed.Observations)
	if err != nil {
		return overtime.ImportResponse{}, err
	}
	resp.SkippedLines = parsed.Skipped

	return resp, nil
}

// ImportObservations implements overtime.Service.
func (s *OvertimeServiceImpl) ImportObservations(ctx context.Context, req overtime.ImportObservationsRequest) (overtime.ImportResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.ImportResponse{}, err
	}

	return s.mergeAndSave(ctx, req.Observations)
}

func (s *OvertimeServiceImpl) mergeAndSave(ctx context.Context, observations []overtime.Observation) (overtime.ImportResponse, error) {
	batchID := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.RecordRepository.Load(ctx)
	if err != nil {
		return overtime.ImportResponse{}, fmt.Errorf("failed to load records: %w", err)
	}

	merged, report := s.reconciler.Merge(records, observations)

	if report.Accepted > 0 {
		if err := s.RecordRepository.Save(ctx, merged); err != nil {
			return overtime.ImportResponse{}, fmt.Errorf("failed to save records: %w", err)
		}
	} else {
		merged = records
	}

	slog.Info("Merged attendance observations",
		"batch_id", batchID,
		"observations", len(observations),
		"accepted", report.Accepted,
		"rejected", len(report.Rejected),
		"total_records", len(merged),
	)
	for _, rej := range report.Rejected {
		slog.Debug("Rejected observation", "batch_id", batchID, "index", rej.Index, "reason", rej.Reason)
	}

	resp := overtime.ImportResponse{
		BatchID:      batchID,
		Accepted:     report.Accepted,
		Rejected:     report.Rejected,
		TotalRecords: len(merged),
	}
	if report.Accepted > 0 {
		s.notify(overtime.EventRecordsImported, resp)
	}
	return resp, nil
}

// UpsertRecord implements overtime.Service.
func (s *OvertimeServiceImpl) UpsertRecord(ctx context.Context, req overtime.ManualEntryRequest) (overtime.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.RecordResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.RecordRepository.Load(ctx)
	if err != nil {
		return overtime.RecordResponse{}, fmt.Errorf("failed to load records: %w", err)
	}

	updated, rec, err := s.reconciler.Upsert(records, req)
	if err != nil {
		return overtime.RecordResponse{}, err
	}

	result, err := s.calculator.CalculateRecord(rec)
	if err != nil {
		return overtime.RecordResponse{}, err
	}

	if err := s.RecordRepository.Save(ctx, updated); err != nil {
		return overtime.RecordResponse{}, fmt.Errorf("failed to save records: %w", err)
	}

	slog.Info("Applied manual entry", "name", rec.Name, "date", rec.Date, "clock_in", rec.ClockIn, "clock_out", rec.ClockOut)

	resp := overtime.RecordResponse{Record: rec, Result: result}
	s.notify(overtime.EventRecordUpdated, resp)
	return resp, nil
}

// ListRecords implements overtime.Service.
func (s *OvertimeServiceImpl) ListRecords(ctx context.Context, filter overtime.RecordFilter) ([]overtime.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.RecordRepository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	nameKey := overtime.NameKey(filter.Name)
	responses := make([]overtime.RecordResponse, 0, len(records))
	for _, rec := range records {
		if filter.Month != "" && rec.Month() != filter.Month {
			continue
		}
		if nameKey != "" && overtime.NameKey(rec.Name) != nameKey {
			continue
		}

		result, err := s.calculator.CalculateRecord(rec)
		if err != nil {
			slog.Debug("Stored record cannot be calculated", "name", rec.Name, "date", rec.Date, "error", err)
		}
		responses = append(responses, overtime.RecordResponse{Record: rec, Result: result})
	}

	return responses, nil
}

// ClearRecords implements overtime.Service.
func (s *OvertimeServiceImpl) ClearRecords(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.RecordRepository.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	slog.Warn("Cleared all attendance records")
	s.notify(overtime.EventRecordsCleared, nil)
	return nil
}

// Calculate implements overtime.Service.
func (s *OvertimeServiceImpl) Calculate(ctx context.Context, req overtime.CalculateRequest) (overtime.Result, error) {
	return s.calculator.Calculate(req.Date, req.ClockIn, req.ClockOut)
}

// ListMonths implements overtime.Service.
func (s *OvertimeServiceImpl) ListMonths(ctx context.Context) ([]string, error) {
	records, err := s.RecordRepository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	return s.aggregator.MonthsPresent(records), nil
}

// ListEmployees implements overtime.Service.
func (s *OvertimeServiceImpl) ListEmployees(ctx context.Context, month string) ([]overtime.EmployeeSummary, error) {
	if _, ok := validator.IsValidMonth(month); !ok {
		return nil, fmt.Errorf("%w: %q", overtime.ErrInvalidMonthFormat, month)
	}

	records, err := s.RecordRepository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	return s.aggregator.EmployeeSummaries(records, month)
}

// GetMonthlyRecap implements overtime.Service.
func (s *OvertimeServiceImpl) GetMonthlyRecap(ctx context.Context, month string, name string) (overtime.MonthlyRecap, error) {
	if _, ok := validator.IsValidMonth(month); !ok {
		return overtime.MonthlyRecap{}, fmt.Errorf("%w: %q", overtime.ErrInvalidMonthFormat, month)
	}
	if validator.IsEmpty(name) {
		return overtime.MonthlyRecap{}, overtime.ErrEmptyName
	}

	records, err := s.RecordRepository.Load(ctx)
	if err != nil {
		return overtime.MonthlyRecap{}, fmt.Errorf("failed to load records: %w", err)
	}

	if !s.hasEmployee(records, month, name) {
		return overtime.MonthlyRecap{}, fmt.Errorf("%w: %s in %s", overtime.ErrEmployeeNotFound, name, month)
	}

	return s.aggregator.MonthlyRecap(records, month, name)
}

func (s *OvertimeServiceImpl) hasEmployee(records []overtime.Record, month, name string) bool {
	key := overtime.NameKey(name)
	for _, employee := range s.aggregator.EmployeesInMonth(records, month) {
		if overtime.NameKey(employee) == key {
			return true
		}
	}
	return false
}

// ExportRecap implements overtime.Service.
func (s *OvertimeServiceImpl) ExportRecap(ctx context.Context, req overtime.ExportRequest) (overtime.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return overtime.ExportFile{}, err
	}

	recap, err := s.GetMonthlyRecap(ctx, req.Month, req.Name)
	if err != nil {
		return overtime.ExportFile{}, err
	}

	file, err := export.Render(recap, req.Format)
	if err != nil {
		return overtime.ExportFile{}, err
	}

	slog.Info("Exported monthly recap", "month", recap.Month, "name", recap.Name, "format", req.Format, "bytes", len(file.Data))
	return file, nil
}

func NewOvertimeService(recordRepository overtime.RecordRepository, notifiers ...overtime.Notifier) overtime.Service {
	calculator := NewCalculator()
	return &OvertimeServiceImpl{
		RecordRepository: recordRepository,
		calculator:       calculator,
		reconciler:       NewReconciler(),
		aggregator:       NewAggregator(calculator),
		notifiers:        notifiers,
	}
}

package overtime

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/clocktime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/validator"
)

// Fixed weekly schedule, in minutes since midnight.
const (
	ScheduledStart = 8 * 60
	WeekdayEnd     = 17 * 60
	SaturdayEnd    = 14 * 60
)

const dateLayout = "2006-01-02"

// ScheduledEnd returns the end of the working day. Sundays are never evaluated by the
// aggregator but follow the weekday rule when a caller asks.
func ScheduledEnd(day time.Weekday) int {
	if day == time.Saturday {
		return SaturdayEnd
	}
	return WeekdayEnd
}

type Calculator struct {
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate derives net overtime, lateness and owed minutes for one day.
// A missing clockIn counts as midnight; a missing clockOut yields StatusNoCheckout.
// Lateness is deducted from overtime before any overtime is credited.
func (c *Calculator) Calculate(date, clockIn, clockOut string) (overtime.Result, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return overtime.Result{}, fmt.Errorf("%w: %q", overtime.ErrInvalidDateFormat, date)
	}

	scheduledEnd := ScheduledEnd(day.Weekday())

	inMinutes := 0
	if clockIn != "" {
		m, err := clocktime.ToMinutes(clockIn)
		if err != nil {
			return overtime.Result{}, fmt.Errorf("clock in: %w", err)
		}
		inMinutes = m
	}

	if clockOut == "" {
		owed := max(0, scheduledEnd-inMinutes)
		return overtime.Result{
			Status:                overtime.StatusNoCheckout,
			OwedMinutes:           owed,
			ScheduledStartMinutes: ScheduledStart,
			ScheduledEndMinutes:   scheduledEnd,
			Display:               clocktime.FormatDuration(0),
			OwedDisplay:           clocktime.FormatDuration(owed),
		}, nil
	}

	outMinutes, err := clocktime.ToMinutes(clockOut)
	if err != nil {
		return overtime.Result{}, fmt.Errorf("clock out: %w", err)
	}

	overtimeRaw := max(0, outMinutes-scheduledEnd)
	late := max(0, inMinutes-ScheduledStart)
	net := max(0, overtimeRaw-late)
	owed := max(0, late-overtimeRaw)

	status := overtime.StatusNoOvertime
	if net > 0 {
		status = overtime.StatusHasOvertime
	}

	return overtime.Result{
		Status:                status,
		NetOvertimeMinutes:    net,
		RawOvertimeMinutes:    overtimeRaw,
		LateMinutes:           late,
		OwedMinutes:           owed,
		ScheduledStartMinutes: ScheduledStart,
		ScheduledEndMinutes:   scheduledEnd,
		Display:               clocktime.FormatDuration(net),
		OwedDisplay:           clocktime.FormatDuration(owed),
	}, nil
}

// CalculateRecord is Calculate applied to a stored record.
func (c *Calculator) CalculateRecord(record overtime.Record) (overtime.Result, error) {
	return c.Calculate(record.Date, record.ClockIn, record.ClockOut)
}

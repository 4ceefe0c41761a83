package overtime

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/clocktime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/validator"
)

// Aggregator builds the monthly views. It never mutates the records it is given.
//
// Employee names are matched case-insensitively in every view; the casing shown is the
// one of the first record seen for that employee.
type Aggregator struct {
	calculator *Calculator
}

func NewAggregator(calculator *Calculator) *Aggregator {
	return &Aggregator{calculator: calculator}
}

// MonthsPresent returns every YYYY-MM that has at least one record, newest first.
func (a *Aggregator) MonthsPresent(records []overtime.Record) []string {
	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, rec := range records {
		if _, ok := validator.IsValidDate(rec.Date); !ok {
			continue
		}
		month := rec.Month()
		if _, dup := seen[month]; dup {
			continue
		}
		seen[month] = struct{}{}
		months = append(months, month)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// EmployeesInMonth returns the distinct employee names of a month in ascending order.
func (a *Aggregator) EmployeesInMonth(records []overtime.Record, month string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, rec := range records {
		if rec.Month() != month {
			continue
		}
		key := overtime.NameKey(rec.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, rec.Name)
	}

	sort.Slice(names, func(i, j int) bool {
		ki, kj := overtime.NameKey(names[i]), overtime.NameKey(names[j])
		if ki != kj {
			return ki < kj
		}
		return names[i] < names[j]
	})
	return names
}

// MonthlyTotal sums net overtime over every record of the employee in the month.
// Records that cannot be decoded contribute nothing.
func (a *Aggregator) MonthlyTotal(records []overtime.Record, month string, name string) int {
	total := 0
	for _, rec := range employeeRecords(records, month, name) {
		result, err := a.calculator.CalculateRecord(rec)
		if err != nil {
			continue
		}
		total += result.NetOvertimeMinutes
	}
	return total
}

// DailyBreakdown emits one row per calendar day of the month, Sundays excluded.
// Days without a record become absence rows worth zero overtime.
func (a *Aggregator) DailyBreakdown(records []overtime.Record, month string, name string) ([]overtime.DailyRow, error) {
	days, err := WorkingDays(month)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]overtime.Record)
	for _, rec := range employeeRecords(records, month, name) {
		if _, dup := byDate[rec.Date]; !dup {
			byDate[rec.Date] = rec
		}
	}

	rows := make([]overtime.DailyRow, 0, len(days))
	for _, day := range days {
		date := day.Format(dateLayout)
		rec, found := byDate[date]
		if !found {
			rows = append(rows, absenceRow(date, day.Weekday()))
			continue
		}
		rows = append(rows, a.presentRow(rec, day.Weekday()))
	}
	return rows, nil
}

// MonthlyRecap is the detail view of one employee: summary figures and daily rows.
// Its summary is computed from the rows, so records on Sundays are not part of it.
func (a *Aggregator) MonthlyRecap(records []overtime.Record, month string, name string) (overtime.MonthlyRecap, error) {
	rows, err := a.DailyBreakdown(records, month, name)
	if err != nil {
		return overtime.MonthlyRecap{}, err
	}

	display := name
	if recs := employeeRecords(records, month, name); len(recs) > 0 {
		display = recs[0].Name
	}

	return overtime.MonthlyRecap{
		Month:   month,
		Name:    display,
		Summary: summarizeRows(display, rows),
		Rows:    rows,
	}, nil
}

// EmployeeSummaries returns the coverage and overtime totals of every employee in the month.
func (a *Aggregator) EmployeeSummaries(records []overtime.Record, month string) ([]overtime.EmployeeSummary, error) {
	names := a.EmployeesInMonth(records, month)
	summaries := make([]overtime.EmployeeSummary, 0, len(names))
	for _, name := range names {
		rows, err := a.DailyBreakdown(records, month, name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, a.summarize(records, month, name, rows))
	}
	return summaries, nil
}

func (a *Aggregator) summarize(records []overtime.Record, month, name string, rows []overtime.DailyRow) overtime.EmployeeSummary {
	absent := 0
	for _, row := range rows {
		if row.Kind == overtime.RowAbsent {
			absent++
		}
	}

	total := a.MonthlyTotal(records, month, name)
	return overtime.EmployeeSummary{
		Name:                 name,
		DaysRecorded:         len(employeeRecords(records, month, name)),
		WorkingDays:          len(rows),
		DaysAbsent:           absent,
		TotalOvertimeMinutes: total,
		TotalDisplay:         clocktime.FormatDuration(total),
	}
}

func summarizeRows(name string, rows []overtime.DailyRow) overtime.EmployeeSummary {
	recorded, absent, total := 0, 0, 0
	for _, row := range rows {
		if row.Kind == overtime.RowAbsent {
			absent++
			continue
		}
		recorded++
		total += row.NetOvertimeMinutes
	}

	return overtime.EmployeeSummary{
		Name:                 name,
		DaysRecorded:         recorded,
		WorkingDays:          len(rows),
		DaysAbsent:           absent,
		TotalOvertimeMinutes: total,
		TotalDisplay:         clocktime.FormatDuration(total),
	}
}

func (a *Aggregator) presentRow(rec overtime.Record, weekday time.Weekday) overtime.DailyRow {
	row := overtime.DailyRow{
		Date:     rec.Date,
		Weekday:  weekday.String(),
		Kind:     overtime.RowPresent,
		ClockIn:  rec.ClockIn,
		ClockOut: rec.ClockOut,
	}

	result, err := a.calculator.CalculateRecord(rec)
	if err != nil {
		row.Kind = overtime.RowInvalid
		row.Display = "0"
		row.OwedDisplay = clocktime.NoneMarker
		row.Note = err.Error()
		return row
	}

	row.Status = result.Status
	row.LateMinutes = result.LateMinutes
	row.OwedMinutes = result.OwedMinutes
	row.OwedDisplay = result.OwedDisplay
	row.NetOvertimeMinutes = result.NetOvertimeMinutes
	row.Display = result.Display
	return row
}

func absenceRow(date string, weekday time.Weekday) overtime.DailyRow {
	return overtime.DailyRow{
		Date:        date,
		Weekday:     weekday.String(),
		Kind:        overtime.RowAbsent,
		OwedDisplay: clocktime.NoneMarker,
		Display:     "0",
		Note:        overtime.AbsenceMarker,
	}
}

// WorkingDays lists the days of a YYYY-MM month that are evaluated, i.e. all but Sundays.
func WorkingDays(month string) ([]time.Time, error) {
	first, ok := validator.IsValidMonth(month)
	if !ok {
		return nil, fmt.Errorf("%w: %q", overtime.ErrInvalidMonthFormat, month)
	}

	last := first.AddDate(0, 1, -1)
	days := make([]time.Time, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days, nil
}

func employeeRecords(records []overtime.Record, month string, name string) []overtime.Record {
	key := overtime.NameKey(name)
	var matched []overtime.Record
	for _, rec := range records {
		if rec.Month() == month && overtime.NameKey(rec.Name) == key {
			matched = append(matched, rec)
		}
	}
	return matched
}

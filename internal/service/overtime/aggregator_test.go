package overtime

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []overtime.Record {
	return []overtime.Record{
		{Name: "Alice", Date: "2024-01-06", ClockIn: "08:10", ClockOut: "15:00"}, // saturday, 50
		{Name: "Alice", Date: "2024-01-08", ClockIn: "07:45", ClockOut: "18:30"}, // 90
		{Name: "Alice", Date: "2024-01-07", ClockIn: "08:00", ClockOut: "18:00"}, // sunday, 60
		{Name: "Budi", Date: "2024-01-09", ClockIn: "07:55"},
		{Name: "alice", Date: "2024-01-10", ClockIn: "08:00", ClockOut: "17:00"}, // 0
		{Name: "Alice", Date: "2023-12-29", ClockIn: "08:00", ClockOut: "19:00"},
		{Name: "Ghost", Date: "not-a-date", ClockIn: "08:00"},
	}
}

func TestAggregator_MonthsPresent(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	assert.Equal(t, []string{"2024-01", "2023-12"}, agg.MonthsPresent(sampleRecords()))
	assert.Empty(t, agg.MonthsPresent(nil))
}

func TestAggregator_EmployeesInMonth(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	assert.Equal(t, []string{"Alice", "Budi"}, agg.EmployeesInMonth(sampleRecords(), "2024-01"))
	assert.Equal(t, []string{"Alice"}, agg.EmployeesInMonth(sampleRecords(), "2023-12"))
	assert.Empty(t, agg.EmployeesInMonth(sampleRecords(), "2022-01"))
}

func TestAggregator_EmployeesInMonth_SortsIgnoringCase(t *testing.T) {
	agg := NewAggregator(NewCalculator())
	records := []overtime.Record{
		{Name: "dewi", Date: "2024-03-01", ClockIn: "08:00"},
		{Name: "Citra", Date: "2024-03-01", ClockIn: "08:00"},
		{Name: "bayu", Date: "2024-03-01", ClockIn: "08:00"},
	}

	assert.Equal(t, []string{"bayu", "Citra", "dewi"}, agg.EmployeesInMonth(records, "2024-03"))
}

func TestAggregator_MonthlyTotal(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	assert.Equal(t, 200, agg.MonthlyTotal(sampleRecords(), "2024-01", "Alice"))
	assert.Equal(t, 200, agg.MonthlyTotal(sampleRecords(), "2024-01", "ALICE"))
	assert.Equal(t, 0, agg.MonthlyTotal(sampleRecords(), "2024-01", "Budi"))
	assert.Equal(t, 120, agg.MonthlyTotal(sampleRecords(), "2023-12", "alice"))
	assert.Equal(t, 0, agg.MonthlyTotal(sampleRecords(), "2024-01", "Nobody"))
}

func TestAggregator_DailyBreakdown(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	rows, err := agg.DailyBreakdown(sampleRecords(), "2024-01", "alice")
	require.NoError(t, err)
	require.Len(t, rows, 27)

	present, absent := 0, 0
	seen := make(map[string]bool)
	for _, row := range rows {
		day, err := time.Parse(dateLayout, row.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Sunday, day.Weekday(), row.Date)
		assert.False(t, seen[row.Date], "duplicate row for %s", row.Date)
		seen[row.Date] = true

		switch row.Kind {
		case overtime.RowPresent:
			present++
		case overtime.RowAbsent:
			absent++
			assert.Zero(t, row.NetOvertimeMinutes)
			assert.Equal(t, overtime.AbsenceMarker, row.Note)
		}
	}
	assert.Equal(t, 3, present)
	assert.Equal(t, 24, absent)

	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, overtime.RowAbsent, rows[0].Kind)

	saturday := rows[5]
	assert.Equal(t, "2024-01-06", saturday.Date)
	assert.Equal(t, "Saturday", saturday.Weekday)
	assert.Equal(t, overtime.RowPresent, saturday.Kind)
	assert.Equal(t, 50, saturday.NetOvertimeMinutes)
	assert.Equal(t, "50 minutes", saturday.Display)
	assert.Equal(t, "08:10", saturday.ClockIn)
	assert.Equal(t, "15:00", saturday.ClockOut)
}

func TestAggregator_DailyBreakdown_NoCheckoutRow(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	rows, err := agg.DailyBreakdown(sampleRecords(), "2024-01", "Budi")
	require.NoError(t, err)

	var row overtime.DailyRow
	for _, r := range rows {
		if r.Date == "2024-01-09" {
			row = r
		}
	}
	assert.Equal(t, overtime.RowPresent, row.Kind)
	assert.Equal(t, overtime.StatusNoCheckout, row.Status)
	assert.Equal(t, 545, row.OwedMinutes)
	assert.Equal(t, "9 hours 5 minutes", row.OwedDisplay)
}

func TestAggregator_DailyBreakdown_InvalidRecord(t *testing.T) {
	agg := NewAggregator(NewCalculator())
	records := []overtime.Record{
		{Name: "Eko", Date: "2024-01-02", ClockIn: "xx:yy", ClockOut: "17:00"},
		{Name: "Eko", Date: "2024-01-03", ClockIn: "08:00", ClockOut: "18:00"},
	}

	rows, err := agg.DailyBreakdown(records, "2024-01", "Eko")
	require.NoError(t, err)
	assert.Equal(t, overtime.RowInvalid, rows[1].Kind)
	assert.NotEmpty(t, rows[1].Note)
	assert.Equal(t, 60, rows[2].NetOvertimeMinutes)
	assert.Equal(t, 60, agg.MonthlyTotal(records, "2024-01", "Eko"))
}

func TestAggregator_DailyBreakdown_InvalidMonth(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	_, err := agg.DailyBreakdown(sampleRecords(), "2024-1", "Alice")
	assert.ErrorIs(t, err, overtime.ErrInvalidMonthFormat)
}

func TestAggregator_MonthlyRecap(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	recap, err := agg.MonthlyRecap(sampleRecords(), "2024-01", "ALICE")
	require.NoError(t, err)

	assert.Equal(t, "2024-01", recap.Month)
	assert.Equal(t, "Alice", recap.Name)
	assert.Len(t, recap.Rows, 27)
	assert.Equal(t, overtime.EmployeeSummary{
		Name:                 "Alice",
		DaysRecorded:         3,
		WorkingDays:          27,
		DaysAbsent:           24,
		TotalOvertimeMinutes: 140,
		TotalDisplay:         "2 hours 20 minutes",
	}, recap.Summary)
}

func TestAggregator_MonthlyRecap_TotalMatchesRows(t *testing.T) {
	agg := NewAggregator(NewCalculator())
	records := []overtime.Record{
		{Name: "Fajar", Date: "2024-01-07", ClockIn: "08:00", ClockOut: "18:00"}, // sunday
		{Name: "Fajar", Date: "2024-01-08", ClockIn: "08:00", ClockOut: "18:00"},
	}

	recap, err := agg.MonthlyRecap(records, "2024-01", "Fajar")
	require.NoError(t, err)

	sum := 0
	for _, row := range recap.Rows {
		sum += row.NetOvertimeMinutes
	}
	assert.Equal(t, 60, sum)
	assert.Equal(t, sum, recap.Summary.TotalOvertimeMinutes)
	assert.Equal(t, 1, recap.Summary.DaysRecorded)
	assert.Equal(t, recap.Summary.WorkingDays, recap.Summary.DaysRecorded+recap.Summary.DaysAbsent)

	// the employee listing still sums every record of the month
	assert.Equal(t, 120, agg.MonthlyTotal(records, "2024-01", "Fajar"))
}

func TestAggregator_EmployeeSummaries(t *testing.T) {
	agg := NewAggregator(NewCalculator())

	summaries, err := agg.EmployeeSummaries(sampleRecords(), "2024-01")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Alice", summaries[0].Name)
	assert.Equal(t, 200, summaries[0].TotalOvertimeMinutes)
	assert.Equal(t, "Budi", summaries[1].Name)
	assert.Equal(t, 1, summaries[1].DaysRecorded)
	assert.Equal(t, 26, summaries[1].DaysAbsent)
	assert.Equal(t, "-", summaries[1].TotalDisplay)
}

func TestWorkingDays(t *testing.T) {
	days, err := WorkingDays("2024-02")
	require.NoError(t, err)
	assert.Len(t, days, 25)
	assert.Equal(t, "2024-02-29", days[len(days)-1].Format(dateLayout))

	_, err = WorkingDays("February")
	assert.ErrorIs(t, err, overtime.ErrInvalidMonthFormat)
}

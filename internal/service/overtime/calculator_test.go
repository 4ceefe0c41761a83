package overtime

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/clocktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledEnd(t *testing.T) {
	assert.Equal(t, 840, ScheduledEnd(time.Saturday))
	assert.Equal(t, 1020, ScheduledEnd(time.Monday))
	assert.Equal(t, 1020, ScheduledEnd(time.Friday))
}

func TestCalculator_Calculate_Scenarios(t *testing.T) {
	calc := NewCalculator()

	t.Run("saturday overtime minus lateness", func(t *testing.T) {
		result, err := calc.Calculate("2024-01-06", "08:10", "15:00")
		require.NoError(t, err)
		assert.Equal(t, 840, result.ScheduledEndMinutes)
		assert.Equal(t, 10, result.LateMinutes)
		assert.Equal(t, 60, result.RawOvertimeMinutes)
		assert.Equal(t, 50, result.NetOvertimeMinutes)
		assert.Equal(t, 0, result.OwedMinutes)
		assert.Equal(t, overtime.StatusHasOvertime, result.Status)
		assert.Equal(t, "50 minutes", result.Display)
	})

	t.Run("monday lateness outweighs overtime", func(t *testing.T) {
		result, err := calc.Calculate("2024-01-08", "08:30", "17:10")
		require.NoError(t, err)
		assert.Equal(t, 1020, result.ScheduledEndMinutes)
		assert.Equal(t, 30, result.LateMinutes)
		assert.Equal(t, 10, result.RawOvertimeMinutes)
		assert.Equal(t, 0, result.NetOvertimeMinutes)
		assert.Equal(t, 20, result.OwedMinutes)
		assert.Equal(t, overtime.StatusNoOvertime, result.Status)
		assert.Equal(t, clocktime.NoneMarker, result.Display)
		assert.Equal(t, "20 minutes", result.OwedDisplay)
	})

	t.Run("missing checkout owes time until scheduled end", func(t *testing.T) {
		result, err := calc.Calculate("2024-01-09", "07:55", "")
		require.NoError(t, err)
		assert.Equal(t, overtime.StatusNoCheckout, result.Status)
		assert.Equal(t, 545, result.OwedMinutes)
		assert.Equal(t, 0, result.NetOvertimeMinutes)
		assert.Equal(t, 0, result.LateMinutes)
	})

	t.Run("missing clock in counts as midnight", func(t *testing.T) {
		result, err := calc.Calculate("2024-01-08", "", "18:00")
		require.NoError(t, err)
		assert.Equal(t, 60, result.NetOvertimeMinutes)
		assert.Equal(t, 0, result.LateMinutes)
	})

	t.Run("clock in after scheduled end with no checkout", func(t *testing.T) {
		result, err := calc.Calculate("2024-01-06", "15:00", "")
		require.NoError(t, err)
		assert.Equal(t, 0, result.OwedMinutes)
	})
}

func TestCalculator_Calculate_NoCheckoutNeverEarnsOvertime(t *testing.T) {
	calc := NewCalculator()
	for in := 0; in < clocktime.MinutesPerDay; in += 7 {
		for _, date := range []string{"2024-01-06", "2024-01-08"} {
			result, err := calc.Calculate(date, clocktime.FormatClock(in), "")
			require.NoError(t, err)
			if result.NetOvertimeMinutes != 0 || result.Status != overtime.StatusNoCheckout {
				t.Fatalf("in=%d date=%s gave %+v", in, date, result)
			}
		}
	}
}

func TestCalculator_Calculate_WithinScheduleIsNeutral(t *testing.T) {
	calc := NewCalculator()
	for _, date := range []string{"2024-01-06", "2024-01-10"} {
		day, _ := time.Parse(dateLayout, date)
		end := ScheduledEnd(day.Weekday())
		for in := 0; in <= ScheduledStart; in += 13 {
			for out := in; out <= end; out += 17 {
				result, err := calc.Calculate(date, clocktime.FormatClock(in), clocktime.FormatClock(out))
				require.NoError(t, err)
				if result.NetOvertimeMinutes != 0 || result.OwedMinutes != 0 {
					t.Fatalf("date=%s in=%d out=%d gave %+v", date, in, out, result)
				}
			}
		}
	}
}

func TestCalculator_Calculate_Invalid(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Calculate("2024-13-01", "08:00", "17:00")
	assert.ErrorIs(t, err, overtime.ErrInvalidDateFormat)

	_, err = calc.Calculate("08/01/2024", "08:00", "17:00")
	assert.ErrorIs(t, err, overtime.ErrInvalidDateFormat)

	_, err = calc.Calculate("2024-01-08", "8am", "17:00")
	assert.ErrorIs(t, err, overtime.ErrInvalidTimeFormat)

	_, err = calc.Calculate("2024-01-08", "08:00", "25:00")
	assert.ErrorIs(t, err, overtime.ErrInvalidTimeFormat)
}

func TestCalculator_CalculateRecord(t *testing.T) {
	calc := NewCalculator()
	result, err := calc.CalculateRecord(overtime.Record{Name: "Alice", Date: "2024-01-08", ClockIn: "07:45", ClockOut: "18:30"})
	require.NoError(t, err)
	assert.Equal(t, 90, result.NetOvertimeMinutes)
	assert.Equal(t, "1 hour 30 minutes", result.Display)
}

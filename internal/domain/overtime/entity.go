package overtime

import "strings"

// Record is the canonical attendance record of one employee on one calendar day.
// Empty ClockIn/ClockOut mean the time was never observed.
type Record struct {
	Name     string `json:"name"`
	Date     string `json:"date"`     // YYYY-MM-DD
	ClockIn  string `json:"clockIn"`  // HH:MM
	ClockOut string `json:"clockOut"` // HH:MM
}

// Key identifies the (employee, day) pair a record belongs to.
func (r Record) Key() string {
	return RecordKey(r.Name, r.Date)
}

// Month returns the YYYY-MM part of the record date.
func (r Record) Month() string {
	if len(r.Date) < 7 {
		return ""
	}
	return r.Date[:7]
}

// RecordKey builds the merge key. Names compare case-insensitively.
func RecordKey(name, date string) string {
	return NameKey(name) + "|" + date
}

// NameKey is the case-insensitive identity of an employee name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Observation is a single raw scan event not yet reconciled.
type Observation struct {
	Name string `json:"name"`
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM or HH:MM:SS
}

type Status string

const (
	StatusNoCheckout  Status = "no_checkout"
	StatusHasOvertime Status = "has_overtime"
	StatusNoOvertime  Status = "no_overtime"
)

// Result is the overtime figure derived from one record.
type Result struct {
	Status                Status `json:"status"`
	NetOvertimeMinutes    int    `json:"net_overtime_minutes"`
	RawOvertimeMinutes    int    `json:"raw_overtime_minutes"`
	LateMinutes           int    `json:"late_minutes"`
	OwedMinutes           int    `json:"owed_minutes"`
	ScheduledStartMinutes int    `json:"scheduled_start_minutes"`
	ScheduledEndMinutes   int    `json:"scheduled_end_minutes"`
	Display               string `json:"display"`
	OwedDisplay           string `json:"owed_display"`
}

type RowKind string

const (
	RowPresent RowKind = "present"
	RowAbsent  RowKind = "absent"
	// RowInvalid marks a stored record whose times can no longer be decoded.
	RowInvalid RowKind = "invalid"
)

// AbsenceMarker is shown in place of clock times on absence rows.
const AbsenceMarker = "NO SCAN DATA (ABSENT)"

// DailyRow is one working day of an employee's monthly breakdown.
type DailyRow struct {
	Date               string  `json:"date"`
	Weekday            string  `json:"weekday"`
	Kind               RowKind `json:"kind"`
	ClockIn            string  `json:"clock_in,omitempty"`
	ClockOut           string  `json:"clock_out,omitempty"`
	Status             Status  `json:"status,omitempty"`
	LateMinutes        int     `json:"late_minutes"`
	OwedMinutes        int     `json:"owed_minutes"`
	OwedDisplay        string  `json:"owed_display"`
	NetOvertimeMinutes int     `json:"net_overtime_minutes"`
	Display            string  `json:"display"`
	Note               string  `json:"note,omitempty"`
}

// EmployeeSummary is one line of the per-month employee listing.
type EmployeeSummary struct {
	Name                 string `json:"name"`
	DaysRecorded         int    `json:"days_recorded"`
	WorkingDays          int    `json:"working_days"`
	DaysAbsent           int    `json:"days_absent"`
	TotalOvertimeMinutes int    `json:"total_overtime_minutes"`
	TotalDisplay         string `json:"total_display"`
}

// MonthlyRecap is the detail view of one employee for one month.
type MonthlyRecap struct {
	Month   string          `json:"month"`
	Name    string          `json:"name"`
	Summary EmployeeSummary `json:"summary"`
	Rows    []DailyRow      `json:"rows"`
}

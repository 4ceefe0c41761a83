package clocktime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidFormat is returned when a string is not a wall-clock time.
var ErrInvalidFormat = errors.New("invalid time format, expected HH:MM")

// MinutesPerDay is the size of the minutes-since-midnight domain.
const MinutesPerDay = 24 * 60

var (
	clockRegex     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	clockSecsRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(:\d{2})?$`)
)

// ToMinutes converts "HH:MM" into minutes since midnight.
func ToMinutes(clock string) (int, error) {
	m := clockRegex.FindStringSubmatch(clock)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}
	return fromParts(clock, m[1], m[2])
}

// Normalize accepts H:MM, HH:MM or HH:MM:SS and returns the zero-padded HH:MM form.
// Seconds are dropped.
func Normalize(clock string) (string, error) {
	m := clockSecsRegex.FindStringSubmatch(clock)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}
	minutes, err := fromParts(clock, m[1], m[2])
	if err != nil {
		return "", err
	}
	return FormatClock(minutes), nil
}

func fromParts(clock, hh, mm string) (int, error) {
	hours, _ := strconv.Atoi(hh)
	minutes, _ := strconv.Atoi(mm)
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as HH:MM. Values outside a single day wrap.
func FormatClock(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NoneMarker is what FormatDuration prints for zero or negative durations.
const NoneMarker = "-"

// FormatDuration renders a duration in minutes as a human readable phrase,
// e.g. "45 minutes", "1 hour", "2 hours 5 minutes".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return NoneMarker
	}
	if minutes < 60 {
		return plural(minutes, "minute")
	}
	if minutes == 60 {
		return "1 hour"
	}

	h, m := minutes/60, minutes%60
	if m == 0 {
		return plural(h, "hour")
	}
	return plural(h, "hour") + " " + plural(m, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Date validation. Only the zero-padded YYYY-MM-DD form is accepted.
func IsValidDate(dateStr string) (time.Time, bool) {
	if !dateRegex.MatchString(dateStr) {
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsValidMonth validates a YYYY-MM month key.
func IsValidMonth(monthStr string) (time.Time, bool) {
	if !monthRegex.MatchString(monthStr) {
		return time.Time{}, false
	}
	month, err := time.Parse("2006-01", monthStr)
	return month, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

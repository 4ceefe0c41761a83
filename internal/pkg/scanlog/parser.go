package scanlog

import (
	"regexp"
	"strings"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
)

// DefaultName is used when a line carries no name column.
const DefaultName = "Karyawan"

// nameColumn is the position of the employee name in fingerprint-scanner exports:
// "<no> <device> <id> <name> <date> <time> ...".
const nameColumn = 3

var (
	dateToken = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeToken = regexp.MustCompile(`^\d{2}:\d{2}`)

	// Unicode spaces that scanner exports and spreadsheets leave behind.
	oddSpaces = strings.NewReplacer(
		"\u00a0", " ", "\u1680", " ", "\u180e", " ",
		"\u2000", " ", "\u2001", " ", "\u2002", " ", "\u2003", " ",
		"\u2004", " ", "\u2005", " ", "\u2006", " ", "\u2007", " ",
		"\u2008", " ", "\u2009", " ", "\u200a", " ", "\u200b", " ",
		"\u202f", " ", "\u205f", " ", "\u3000", " ",
	)
)

// Result is the outcome of parsing a block of scan-log text.
type Result struct {
	Observations []overtime.Observation
	// Skipped counts non-blank lines that had no date or no time token.
	Skipped int
}

// Parse extracts (name, date, time) triples from free-form scan-log text.
// Column detection is positional and best-effort; the output must still go through
// the reconciler's validation.
func Parse(text string) Result {
	var result Result
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		obs, ok := ParseLine(line)
		if !ok {
			result.Skipped++
			continue
		}
		result.Observations = append(result.Observations, obs)
	}
	return result
}

// ParseLine extracts one observation from a single line.
func ParseLine(line string) (overtime.Observation, bool) {
	parts := strings.Fields(oddSpaces.Replace(line))

	dateIdx, timeIdx := -1, -1
	for i, p := range parts {
		if dateIdx == -1 && dateToken.MatchString(p) {
			dateIdx = i
		}
		if timeIdx == -1 && timeToken.MatchString(p) {
			timeIdx = i
		}
	}
	if dateIdx == -1 || timeIdx == -1 {
		return overtime.Observation{}, false
	}

	name := DefaultName
	if len(parts) > nameColumn {
		name = parts[nameColumn]
	}

	return overtime.Observation{
		Name: name,
		Date: parts[dateIdx],
		Time: parts[timeIdx][:5],
	}, true
}

package overtime

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/clocktime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/validator"
)

// Reconciler folds raw observations into canonical records.
// It is not safe for concurrent use on the same collection; callers serialize writers.
type Reconciler struct {
}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Merge applies observations to records using the earliest-in / latest-out rule and
// returns the new collection. The input slice is left untouched.
//
// A lone observation only sets the clock-in. Repeated scans of the same minute do not
// produce a checkout, which keeps Merge idempotent.
func (r *Reconciler) Merge(records []overtime.Record, observations []overtime.Observation) ([]overtime.Record, overtime.MergeReport) {
	merged := make([]overtime.Record, len(records), len(records)+len(observations))
	copy(merged, records)
	index := indexRecords(merged)

	var report overtime.MergeReport
	for i, obs := range observations {
		name, date, clock, err := normalizeObservation(obs)
		if err != nil {
			report.Rejected = append(report.Rejected, overtime.RejectedObservation{
				Index:       i,
				Observation: obs,
				Reason:      err.Error(),
			})
			continue
		}

		key := overtime.RecordKey(name, date)
		if pos, ok := index[key]; ok {
			merged[pos] = foldClock(merged[pos], clock)
		} else {
			merged = append(merged, overtime.Record{Name: name, Date: date, ClockIn: clock})
			index[key] = len(merged) - 1
		}
		report.Accepted++
	}

	return merged, report
}

// Upsert applies a manual entry. Unlike Merge it replaces clock-in and clock-out outright.
// The stored display name of an existing record is kept.
func (r *Reconciler) Upsert(records []overtime.Record, entry overtime.ManualEntryRequest) ([]overtime.Record, overtime.Record, error) {
	if err := entry.Validate(); err != nil {
		return nil, overtime.Record{}, err
	}

	updated := make([]overtime.Record, len(records), len(records)+1)
	copy(updated, records)

	key := overtime.RecordKey(entry.Name, entry.Date)
	for i := range updated {
		if updated[i].Key() == key {
			updated[i].ClockIn = entry.ClockIn
			updated[i].ClockOut = entry.ClockOut
			return updated, updated[i], nil
		}
	}

	record := overtime.Record{
		Name:     strings.TrimSpace(entry.Name),
		Date:     entry.Date,
		ClockIn:  entry.ClockIn,
		ClockOut: entry.ClockOut,
	}
	return append(updated, record), record, nil
}

func indexRecords(records []overtime.Record) map[string]int {
	index := make(map[string]int, len(records))
	for i, rec := range records {
		if _, exists := index[rec.Key()]; !exists {
			index[rec.Key()] = i
		}
	}
	return index
}

func normalizeObservation(obs overtime.Observation) (name, date, clock string, err error) {
	name = strings.TrimSpace(obs.Name)
	if name == "" {
		return "", "", "", overtime.ErrEmptyName
	}

	date = strings.TrimSpace(obs.Date)
	if _, ok := validator.IsValidDate(date); !ok {
		return "", "", "", fmt.Errorf("%w: %q", overtime.ErrInvalidDateFormat, obs.Date)
	}

	clock, err = clocktime.Normalize(strings.TrimSpace(obs.Time))
	if err != nil {
		return "", "", "", err
	}
	return name, date, clock, nil
}

// foldClock widens a record's span to include clock. Zero-padded HH:MM strings order
// lexicographically the same way they order in time. Stored times that do not decode
// are dropped rather than compared.
func foldClock(rec overtime.Record, clock string) overtime.Record {
	earliest, latest := clock, clock
	for _, t := range []string{rec.ClockIn, rec.ClockOut} {
		if t == "" {
			continue
		}
		if _, err := clocktime.ToMinutes(t); err != nil {
			continue
		}
		if t < earliest {
			earliest = t
		}
		if t > latest {
			latest = t
		}
	}

	rec.ClockIn = earliest
	rec.ClockOut = ""
	if latest > earliest {
		rec.ClockOut = latest
	}
	return rec
}

package overtime

import (
	"context"
)

// RecordRepository persists the whole record collection as one unit.
// The engine loads it fully, works on it in memory and hands it back to Save.
type RecordRepository interface {
	// Load returns the stored collection, or an empty slice when nothing is stored
	Load(ctx context.Context) ([]Record, error)

	// Save replaces the stored collection
	Save(ctx context.Context, records []Record) error

	// Clear removes the stored collection
	Clear(ctx context.Context) error
}

package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const recordTable = "overtime_records"

// Dates and clocks stay TEXT: stored collections may carry values that fail
// validation, and those must round-trip unchanged.
const recordSchema = `
	CREATE TABLE IF NOT EXISTS overtime_records (
		seq       BIGINT PRIMARY KEY,
		name      TEXT NOT NULL,
		name_key  TEXT NOT NULL,
		date      TEXT NOT NULL,
		clock_in  TEXT NOT NULL DEFAULT '',
		clock_out TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_overtime_records_key ON overtime_records (name_key, date);
`

var recordColumns = []string{"seq", "name", "name_key", "date", "clock_in", "clock_out"}

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) overtime.RecordRepository {
	return &recordRepository{db: db}
}

// EnsureSchema creates the records table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, recordSchema); err != nil {
		return fmt.Errorf("failed to create %s: %w", recordTable, err)
	}
	return nil
}

// Load implements overtime.RecordRepository.
func (r *recordRepository) Load(ctx context.Context) ([]overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name, date, clock_in, clock_out
		FROM overtime_records
		ORDER BY seq
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	records := make([]overtime.Record, 0)
	for rows.Next() {
		var rec overtime.Record
		if err := rows.Scan(&rec.Name, &rec.Date, &rec.ClockIn, &rec.ClockOut); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// Save implements overtime.RecordRepository. The table is replaced wholesale
// inside one transaction.
func (r *recordRepository) Save(ctx context.Context, records []overtime.Record) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, "DELETE FROM overtime_records"); err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		copied, err := q.CopyFrom(ctx, pgx.Identifier{recordTable}, recordColumns,
			pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
				rec := records[i]
				return []any{int64(i), rec.Name, overtime.NameKey(rec.Name), rec.Date, rec.ClockIn, rec.ClockOut}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy records: %w", err)
		}
		if copied != int64(len(records)) {
			return fmt.Errorf("copied %d of %d records", copied, len(records))
		}

		return nil
	})
}

// Clear implements overtime.RecordRepository.
func (r *recordRepository) Clear(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, "DELETE FROM overtime_records"); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

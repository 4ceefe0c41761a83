package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/storage"
)

const contentTypeJSON = "application/json"

type recordRepository struct {
	files storage.FileStorage
	path  string
}

// NewRecordRepository keeps the whole collection as one JSON file.
func NewRecordRepository(files storage.FileStorage) overtime.RecordRepository {
	return &recordRepository{files: files, path: CollectionKey + ".json"}
}

// Load implements overtime.RecordRepository.
func (r *recordRepository) Load(ctx context.Context) ([]overtime.Record, error) {
	rc, err := r.files.Download(ctx, r.path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []overtime.Record{}, nil
		}
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return Decode(data)
}

// Save implements overtime.RecordRepository.
func (r *recordRepository) Save(ctx context.Context, records []overtime.Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if _, err := r.files.Upload(ctx, bytes.NewReader(data), r.path, contentTypeJSON); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// Clear implements overtime.RecordRepository.
func (r *recordRepository) Clear(ctx context.Context) error {
	if err := r.files.Delete(ctx, r.path); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

package blob

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
)

// CollectionKey is the well-known key the record collection lives under.
const CollectionKey = "overtimeRecords"

// Encode serializes the collection as a JSON array of
// {name, date, clockIn, clockOut} objects.
func Encode(records []overtime.Record) ([]byte, error) {
	if records == nil {
		records = []overtime.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}

// Decode treats an empty blob (or JSON null) as an empty collection.
func Decode(data []byte) ([]overtime.Record, error) {
	records := make([]overtime.Record, 0)
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

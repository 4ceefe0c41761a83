package blob

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (overtime.RecordRepository, *storage.LocalStorage) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewRecordRepository(files), files
}

func TestRecordRepository_LoadEmpty(t *testing.T) {
	repo, _ := newRepository(t)

	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRecordRepository_SaveLoad(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	records := []overtime.Record{
		{Name: "Budi", Date: "2024-01-09", ClockIn: "07:55"},
		{Name: "Alice", Date: "2024-01-08", ClockIn: "07:45", ClockOut: "18:30"},
	}
	require.NoError(t, repo.Save(ctx, records))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	require.NoError(t, repo.Clear(ctx))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRecordRepository_ReadsLegacyBlob(t *testing.T) {
	repo, files := newRepository(t)
	ctx := context.Background()

	legacy := `[{"name":"Karyawan","date":"2024-01-08","clockIn":"07:58","clockOut":""}]`
	_, err := files.Upload(ctx, strings.NewReader(legacy), "overtimeRecords.json", "application/json")
	require.NoError(t, err)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []overtime.Record{{Name: "Karyawan", Date: "2024-01-08", ClockIn: "07:58"}}, loaded)
}

func TestDecode(t *testing.T) {
	records, err := Decode([]byte("  "))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

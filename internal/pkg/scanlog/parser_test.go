package scanlog

import (
	"testing"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want overtime.Observation
		ok   bool
	}{
		{
			name: "scanner export with seconds",
			line: "1\t1\t1001\tAlice\t2024-01-08\t08:00:12\t0",
			want: overtime.Observation{Name: "Alice", Date: "2024-01-08", Time: "08:00"},
			ok:   true,
		},
		{
			name: "short line falls back to default name",
			line: "Bob 2024-01-08 17:05",
			want: overtime.Observation{Name: DefaultName, Date: "2024-01-08", Time: "17:05"},
			ok:   true,
		},
		{
			name: "non-breaking and zero-width spaces",
			line: "2\u00a01\u200b1002\u3000Citra 2024-01-09 07:55",
			want: overtime.Observation{Name: "Citra", Date: "2024-01-09", Time: "07:55"},
			ok:   true,
		},
		{
			name: "header line",
			line: "No Mesin ID Nama Tanggal Jam",
			ok:   false,
		},
		{
			name: "date without time",
			line: "1 1 1001 Alice 2024-01-08",
			ok:   false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ParseLine(c.line)
			assert.Equal(t, c.ok, ok)
			if c.ok {
				assert.Equal(t, c.want, got)
			}
		})
	}
}

func TestParse(t *testing.T) {
	text := "No Mesin ID Nama Tanggal Jam\r\n" +
		"1 1 1001 Alice 2024-01-08 09:00:01\r\n" +
		"\n" +
		"   \n" +
		"2 1 1001 Alice 2024-01-08 08:00:44\n" +
		"garbage line\n"

	result := Parse(text)

	require.Len(t, result.Observations, 2)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, "09:00", result.Observations[0].Time)
	assert.Equal(t, "08:00", result.Observations[1].Time)
}

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Empty(t, result.Observations)
	assert.Zero(t, result.Skipped)
}

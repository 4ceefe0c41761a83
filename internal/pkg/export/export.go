package export

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Render produces the recap document in the requested format.
func Render(recap overtime.MonthlyRecap, format overtime.ExportFormat) (overtime.ExportFile, error) {
	var buf bytes.Buffer
	var contentType string

	switch format {
	case overtime.ExportPDF:
		if err := WritePDF(&buf, recap); err != nil {
			return overtime.ExportFile{}, err
		}
		contentType = ContentTypePDF
	case overtime.ExportXLSX:
		if err := WriteXLSX(&buf, recap); err != nil {
			return overtime.ExportFile{}, err
		}
		contentType = ContentTypeXLSX
	default:
		return overtime.ExportFile{}, fmt.Errorf("%w: %q", overtime.ErrUnsupportedExportFormat, format)
	}

	return overtime.ExportFile{
		Filename:    Filename(recap, format),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}

// Filename builds e.g. "Overtime-Recap-Alice_Smith-2024-01.pdf".
func Filename(recap overtime.MonthlyRecap, format overtime.ExportFormat) string {
	return fmt.Sprintf("Overtime-Recap-%s-%s.%s", SafeName(recap.Name), recap.Month, format)
}

// SafeName replaces every run of characters outside [A-Za-z0-9._-] with "_".
func SafeName(name string) string {
	return unsafeFilename.ReplaceAllString(name, "_")
}

// Hours converts minutes into hours rounded to two decimals.
func Hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

func clockOrBlank(row overtime.DailyRow) (string, string) {
	if row.Kind == overtime.RowAbsent {
		return "", ""
	}
	return row.ClockIn, row.ClockOut
}

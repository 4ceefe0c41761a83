package export

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Date", 26},
	{"Day", 24},
	{"Clock In", 20},
	{"Clock Out", 20},
	{"Owed", 34},
	{"Overtime", 42},
	{"Hours", 20},
}

// compressPDF is switched off in tests to inspect page content.
var compressPDF = true

// WritePDF renders the recap as an A4 PDF table. Text goes through the cp1252
// translator of the core fonts.
func WritePDF(w io.Writer, recap overtime.MonthlyRecap) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compressPDF)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Overtime Recap %s %s", recap.Name, recap.Month), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Overtime Recap"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 7, tr(fmt.Sprintf("Name: %s", recap.Name)))
	pdf.Ln(6)
	pdf.Cell(40, 7, tr(fmt.Sprintf("Month: %s", recap.Month)))
	pdf.Ln(6)
	pdf.Cell(40, 7, tr(fmt.Sprintf("Days recorded: %d   Working days: %d   Absent: %d",
		recap.Summary.DaysRecorded, recap.Summary.WorkingDays, recap.Summary.DaysAbsent)))
	pdf.Ln(6)
	pdf.Cell(40, 7, tr(fmt.Sprintf("Total overtime: %s (%s hours)",
		recap.Summary.TotalDisplay, Hours(recap.Summary.TotalOvertimeMinutes).StringFixed(2))))
	pdf.Ln(10)

	// Header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(124, 58, 237)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range recap.Rows {
		fill := row.Kind != overtime.RowPresent
		if fill {
			pdf.SetFillColor(254, 226, 226)
		}

		clockIn, clockOut := clockOrBlank(row)
		overtimeCell := row.Display
		if row.Kind == overtime.RowAbsent {
			overtimeCell = row.Note
		}

		cells := []string{
			row.Date,
			row.Weekday,
			clockIn,
			clockOut,
			row.OwedDisplay,
			overtimeCell,
			Hours(row.NetOvertimeMinutes).StringFixed(2),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Generated at: %s", time.Now().Format("02 January 2006 15:04:05"))))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

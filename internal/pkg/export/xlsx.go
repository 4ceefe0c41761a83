package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Overtime Recap"

var xlsxHeaders = []string{"Date", "Day", "Clock In", "Clock Out", "Owed", "Overtime", "Overtime (minutes)", "Overtime (hours)"}

// headerRow is the 1-based row holding the table header.
const headerRow = 6

// WriteXLSX renders the recap as a single-sheet workbook.
func WriteXLSX(w io.Writer, recap overtime.MonthlyRecap) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#7C3AED"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	absentStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FEE2E2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(xlsxHeaders))

	f.SetCellValue(sheetName, "A1", "OVERTIME RECAP")
	f.MergeCell(sheetName, "A1", lastCol+"1")
	f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)
	f.SetRowHeight(sheetName, 1, 25)

	f.SetCellValue(sheetName, "A2", "Name:")
	f.SetCellValue(sheetName, "B2", recap.Name)
	f.SetCellValue(sheetName, "A3", "Month:")
	f.SetCellValue(sheetName, "B3", recap.Month)
	f.SetCellValue(sheetName, "A4", "Total overtime:")
	f.SetCellValue(sheetName, "B4", recap.Summary.TotalDisplay)
	f.SetCellValue(sheetName, "D2", "Days recorded:")
	f.SetCellValue(sheetName, "E2", recap.Summary.DaysRecorded)
	f.SetCellValue(sheetName, "D3", "Working days:")
	f.SetCellValue(sheetName, "E3", recap.Summary.WorkingDays)
	f.SetCellValue(sheetName, "D4", "Days absent:")
	f.SetCellValue(sheetName, "E4", recap.Summary.DaysAbsent)

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := headerRow + 1
	for _, daily := range recap.Rows {
		clockIn, clockOut := clockOrBlank(daily)
		overtimeCell := daily.Display
		if daily.Kind == overtime.RowAbsent {
			overtimeCell = daily.Note
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), daily.Date)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), daily.Weekday)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), clockIn)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), clockOut)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), daily.OwedDisplay)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), overtimeCell)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), daily.NetOvertimeMinutes)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), Hours(daily.NetOvertimeMinutes).InexactFloat64())

		if daily.Kind != overtime.RowPresent {
			f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), absentStyle)
		}
		row++
	}

	f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), "TOTAL")
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), recap.Summary.TotalOvertimeMinutes)
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), Hours(recap.Summary.TotalOvertimeMinutes).InexactFloat64())

	f.SetColWidth(sheetName, "A", "B", 14)
	f.SetColWidth(sheetName, "C", "D", 11)
	f.SetColWidth(sheetName, "E", "F", 24)
	f.SetColWidth(sheetName, "G", "H", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

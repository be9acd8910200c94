package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"resultex/pkg/models"
)

var attendanceHeaders = []string{
	"S.No", "Register Number", "Student Name", "Subject Code", "Attendance %",
}

const attendanceWidth = 5

// BuildAttendanceSheet renders the shortage report: one row per qualifying
// (student, subject) pair, with the student's identity cells merged across
// their subject rows. threshold is the cutoff the records were filtered
// against and only labels the banner.
func BuildAttendanceSheet(layout Layout, section, advisor string, threshold float64, records []models.StudentAttendanceRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	_ = f.SetSheetName("Sheet1", sheet)

	st, err := newStyleSet(f)
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}

	subtitle := fmt.Sprintf("Attendance Shortage Report (Below %.0f%%)", threshold)
	row := writeBanner(f, sheet, st, layout, subtitle, attendanceWidth)

	if section != "" {
		_ = f.MergeCell(sheet, cellRef(1, row), cellRef(attendanceWidth, row))
		_ = f.SetCellValue(sheet, cellRef(1, row), "Section: "+section)
		_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(attendanceWidth, row), st.label)
		row++
	}
	if advisor != "" {
		_ = f.MergeCell(sheet, cellRef(1, row), cellRef(attendanceWidth, row))
		_ = f.SetCellValue(sheet, cellRef(1, row), "Faculty Advisor: "+advisor)
		_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(attendanceWidth, row), st.label)
		row++
	}
	row++

	row = writeHeaderRow(f, sheet, st, row, attendanceHeaders)

	for i, rec := range records {
		top := row
		for _, sub := range rec.Subjects {
			_ = f.SetCellValue(sheet, cellRef(4, row), sub.SubjectCode)
			_ = f.SetCellValue(sheet, cellRef(5, row), sub.Percentage)
			row++
		}
		bottom := row - 1

		// Identity cells span the student's subject rows.
		_ = f.SetCellValue(sheet, cellRef(1, top), i+1)
		_ = f.SetCellValue(sheet, cellRef(2, top), rec.RegNumber)
		_ = f.SetCellValue(sheet, cellRef(3, top), rec.Name)
		if bottom > top {
			_ = f.MergeCell(sheet, cellRef(1, top), cellRef(1, bottom))
			_ = f.MergeCell(sheet, cellRef(2, top), cellRef(2, bottom))
			_ = f.MergeCell(sheet, cellRef(3, top), cellRef(3, bottom))
		}
		_ = f.SetCellStyle(sheet, cellRef(1, top), cellRef(attendanceWidth, bottom), st.cell)
		_ = f.SetCellStyle(sheet, cellRef(3, top), cellRef(3, bottom), st.label)
		_ = f.SetCellStyle(sheet, cellRef(5, top), cellRef(5, bottom), st.percent)
	}

	row++
	_ = f.MergeCell(sheet, cellRef(1, row), cellRef(3, row))
	_ = f.SetCellValue(sheet, cellRef(1, row), "Students with shortage")
	_ = f.MergeCell(sheet, cellRef(4, row), cellRef(attendanceWidth, row))
	_ = f.SetCellValue(sheet, cellRef(4, row), len(records))
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(attendanceWidth, row), st.label)

	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "C", "C", 30)
	_ = f.SetColWidth(sheet, "D", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildOverallAnalysis renders class-level results grouped by subject code,
// one worksheet per code with a row per analyzed document and the shared
// column charts.
func BuildOverallAnalysis(layout Layout, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	groups := make(map[string][]Entry)
	var order []string
	for _, e := range entries {
		code := e.Result.SubjectCode
		if _, ok := groups[code]; !ok {
			order = append(order, code)
		}
		groups[code] = append(groups[code], e)
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyleSet(f)
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}

	namer := newSheetNamer()
	for i, code := range order {
		sheet := namer.name(code)
		if i == 0 {
			_ = f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet, err)
			}
		}
		if err := writeOverallSheet(f, sheet, st, layout, code, groups[code]); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeOverallSheet(f *excelize.File, sheet string, st styleSet, layout Layout, code string, entries []Entry) error {
	row := writeBanner(f, sheet, st, layout, "Overall Performance - "+code, analysisWidth)

	_ = f.MergeCell(sheet, cellRef(1, row), cellRef(analysisWidth, row))
	_ = f.SetCellValue(sheet, cellRef(1, row), "Course: "+entries[0].Result.Course)
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(analysisWidth, row), st.label)
	row += 2

	headers := append([]string(nil), analysisHeaders...)
	headers[1] = "Source File"
	row = writeHeaderRow(f, sheet, st, row, headers)

	dataStart := row
	for i, e := range entries {
		writeAnalysisRow(f, sheet, st, row, i+1, e.Filename, e)
		row++
	}
	dataEnd := row - 1

	row++
	_ = f.MergeCell(sheet, cellRef(1, row), cellRef(3, row))
	_ = f.SetCellValue(sheet, cellRef(1, row), "Documents Analyzed")
	_ = f.MergeCell(sheet, cellRef(4, row), cellRef(analysisWidth, row))
	_ = f.SetCellValue(sheet, cellRef(4, row), len(entries))
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(analysisWidth, row), st.label)
	row += 2

	setAnalysisColumnWidths(f, sheet)
	return addAnalysisCharts(f, sheet, row, 2, dataStart, dataEnd)
}

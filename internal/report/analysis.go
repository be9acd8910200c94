package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// analysisHeaders is the 13-column per-test table used by the teacher and
// overall workbooks.
var analysisHeaders = []string{
	"S.No", "Test Component", "Total Strength",
	"0-49", "50-59", "60-69", "70-79", "80-89", "90-100",
	"Absentees", "Pass", "Fail", "Pass %",
}

const (
	analysisWidth      = 13
	analysisBucketCol  = 4  // first mark-range column
	analysisPassPctCol = 13 // Pass % column
)

// BuildTeacherAnalysis renders one teacher's per-test results: the banner,
// the 13-column analysis table (one row per analyzed document), a summary
// block, and two column charts (marks distribution and pass percentage by
// test).
func BuildTeacherAnalysis(layout Layout, teacher string, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Analysis"
	_ = f.SetSheetName("Sheet1", sheet)

	st, err := newStyleSet(f)
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}

	row := writeBanner(f, sheet, st, layout, "Test Performance Analysis - "+teacher, analysisWidth)
	row = writeHeaderRow(f, sheet, st, row, analysisHeaders)

	dataStart := row
	for i, e := range entries {
		writeAnalysisRow(f, sheet, st, row, i+1, e.Result.TestName, e)
		row++
	}
	dataEnd := row - 1

	// Summary block.
	row++
	_ = f.MergeCell(sheet, cellRef(1, row), cellRef(3, row))
	_ = f.SetCellValue(sheet, cellRef(1, row), "Faculty")
	_ = f.MergeCell(sheet, cellRef(4, row), cellRef(analysisWidth, row))
	_ = f.SetCellValue(sheet, cellRef(4, row), teacher)
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(analysisWidth, row), st.label)
	row++
	_ = f.MergeCell(sheet, cellRef(1, row), cellRef(3, row))
	_ = f.SetCellValue(sheet, cellRef(1, row), "Tests Analyzed")
	_ = f.MergeCell(sheet, cellRef(4, row), cellRef(analysisWidth, row))
	_ = f.SetCellValue(sheet, cellRef(4, row), len(entries))
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(analysisWidth, row), st.label)
	row += 2

	setAnalysisColumnWidths(f, sheet)

	if err := addAnalysisCharts(f, sheet, row, 2, dataStart, dataEnd); err != nil {
		return nil, fmt.Errorf("charts: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAnalysisRow fills one 13-column table row from an entry. The label
// column is caller-chosen: the test component in teacher workbooks, the
// source file in overall workbooks.
func writeAnalysisRow(f *excelize.File, sheet string, st styleSet, row, serial int, label string, e Entry) {
	rec := e.Result.Data

	values := []interface{}{serial, label, rec.Strength()}
	for _, b := range rec.RangeBuckets() {
		values = append(values, b)
	}
	values = append(values, rec.Absentees(), rec.Passed(), rec.Failures(), rec.PassPercentage())

	for i, v := range values {
		_ = f.SetCellValue(sheet, cellRef(i+1, row), v)
	}
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(analysisWidth-1, row), st.cell)
	_ = f.SetCellStyle(sheet, cellRef(2, row), cellRef(2, row), st.label)
	_ = f.SetCellStyle(sheet, cellRef(analysisPassPctCol, row), cellRef(analysisPassPctCol, row), st.percent)
}

func setAnalysisColumnWidths(f *excelize.File, sheet string) {
	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "I", 8)
	_ = f.SetColWidth(sheet, "J", "M", 10)
}

// addAnalysisCharts places the marks-distribution and pass-percentage column
// charts below the table. labelCol is the category column.
func addAnalysisCharts(f *excelize.File, sheet string, anchorRow, labelCol, dataStart, dataEnd int) error {
	categories := seriesRef(sheet, labelCol, dataStart, dataEnd)

	var distribution []excelize.ChartSeries
	for col := analysisBucketCol; col < analysisBucketCol+6; col++ {
		distribution = append(distribution, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!%s", sheet, absRef(col, dataStart-1)),
			Categories: categories,
			Values:     seriesRef(sheet, col, dataStart, dataEnd),
		})
	}
	if err := f.AddChart(sheet, cellRef(1, anchorRow), &excelize.Chart{
		Type:      excelize.Col,
		Series:    distribution,
		Title:     []excelize.RichTextRun{{Text: "Marks Distribution"}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
	}); err != nil {
		return err
	}

	pctMax := 100.0
	return f.AddChart(sheet, cellRef(1, anchorRow+20), &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, absRef(analysisPassPctCol, dataStart-1)),
			Categories: categories,
			Values:     seriesRef(sheet, analysisPassPctCol, dataStart, dataEnd),
		}},
		Title:     []excelize.RichTextRun{{Text: "Pass Percentage"}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		YAxis:     excelize.ChartAxis{Maximum: &pctMax},
	})
}

func absRef(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row, true)
	return cell
}

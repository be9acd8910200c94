package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TestGroup is one advisor worksheet: every faculty-subject result matched
// for a single test component.
type TestGroup struct {
	TestName string
	Entries  []Entry
}

// advisorHeaders is the 17-column per-subject table used by faculty-advisor
// workbooks.
var advisorHeaders = []string{
	"S.No", "Subject Code", "Subject Name", "Faculty Name",
	"Total Strength", "Appeared", "Absent",
	"0-49", "50-59", "60-69", "70-79", "80-89", "90-100",
	"Pass", "Fail", "Pass %", "Source File",
}

const (
	advisorWidth      = 17
	advisorPassPctCol = 16
)

// BuildAdvisorAnalysis renders a faculty advisor's consolidated view: one
// worksheet per test component, each with the 17-column per-subject table
// and a pass-percentage chart.
func BuildAdvisorAnalysis(layout Layout, groups []TestGroup) ([]byte, error) {
	if len(groups) == 0 {
		return nil, ErrNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyleSet(f)
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}

	namer := newSheetNamer()
	for i, group := range groups {
		sheet := namer.name(group.TestName)
		if i == 0 {
			_ = f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet, err)
			}
		}
		if err := writeAdvisorSheet(f, sheet, st, layout, group); err != nil {
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

func writeAdvisorSheet(f *excelize.File, sheet string, st styleSet, layout Layout, group TestGroup) error {
	row := writeBanner(f, sheet, st, layout, "Class Performance - "+group.TestName, advisorWidth)
	row = writeHeaderRow(f, sheet, st, row, advisorHeaders)

	dataStart := row
	for i, e := range group.Entries {
		rec := e.Result.Data

		values := []interface{}{
			i + 1, e.Result.SubjectCode, e.Result.Course, rec.FacultyName,
			rec.Strength(), rec.Appeared(), rec.Absentees(),
		}
		for _, b := range rec.RangeBuckets() {
			values = append(values, b)
		}
		values = append(values, rec.Passed(), rec.Failures(), rec.PassPercentage(), e.Filename)

		for col, v := range values {
			_ = f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(advisorWidth, row), st.cell)
		_ = f.SetCellStyle(sheet, cellRef(3, row), cellRef(4, row), st.label)
		_ = f.SetCellStyle(sheet, cellRef(advisorPassPctCol, row), cellRef(advisorPassPctCol, row), st.percent)
		_ = f.SetCellStyle(sheet, cellRef(advisorWidth, row), cellRef(advisorWidth, row), st.label)
		row++
	}
	dataEnd := row - 1
	row += 2

	if dataEnd < dataStart {
		return nil
	}

	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 32)
	_ = f.SetColWidth(sheet, "D", "D", 24)
	_ = f.SetColWidth(sheet, "E", "P", 9)
	_ = f.SetColWidth(sheet, "Q", "Q", 28)

	pctMax := 100.0
	return f.AddChart(sheet, cellRef(1, row), &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, absRef(advisorPassPctCol, dataStart-1)),
			Categories: seriesRef(sheet, 2, dataStart, dataEnd),
			Values:     seriesRef(sheet, advisorPassPctCol, dataStart, dataEnd),
		}},
		Title:     []excelize.RichTextRun{{Text: "Pass Percentage by Subject"}},
		Dimension: excelize.ChartDimension{Width: 720, Height: 360},
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		YAxis:     excelize.ChartAxis{Maximum: &pctMax},
	})
}

// Package report renders extraction results into XLSX workbooks. It is a
// pure rendering collaborator: the core pipeline knows nothing about it, and
// nothing here reaches back into parsing.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"resultex/pkg/models"
)

// ErrNoEntries is returned when a builder is asked to render an empty
// result set.
var ErrNoEntries = errors.New("no entries to render")

// Layout carries the institutional banner printed at the top of every sheet.
type Layout struct {
	// Institution lines are merged across the table width, one row each.
	Institution []string

	// AcademicYear is appended to each sheet's subtitle.
	AcademicYear string
}

// DefaultLayout returns the banner used by the department's own reports.
func DefaultLayout() Layout {
	return Layout{
		Institution: []string{
			"SRM Institute of Science and Technology",
			"College of Engineering and Technology",
			"Department of Computing Technologies",
		},
		AcademicYear: "2025-2026",
	}
}

// Entry pairs one source document with its extraction result.
type Entry struct {
	Filename string
	Result   models.ExtractionResult
}

// styleSet holds the style ids shared by all builders.
type styleSet struct {
	banner  int // institutional banner lines
	title   int // sheet subtitle
	header  int // table header cells
	cell    int // centered data cells
	label   int // left-aligned text cells
	percent int // two-decimal numeric cells
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var st styleSet
	var err error

	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	if st.banner, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: center,
	}); err != nil {
		return st, err
	}
	if st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: center,
	}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: center,
		Border:    thin,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	}); err != nil {
		return st, err
	}
	if st.cell, err = f.NewStyle(&excelize.Style{
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return st, err
	}
	if st.label, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    thin,
	}); err != nil {
		return st, err
	}
	if st.percent, err = f.NewStyle(&excelize.Style{
		Alignment: center,
		Border:    thin,
		NumFmt:    2, // 0.00
	}); err != nil {
		return st, err
	}
	return st, nil
}

// cellRef converts 1-based coordinates to an A1 reference.
func cellRef(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

// seriesRef builds an absolute single-column range reference for chart
// series.
func seriesRef(sheet string, col, fromRow, toRow int) string {
	from, _ := excelize.CoordinatesToCellName(col, fromRow, true)
	to, _ := excelize.CoordinatesToCellName(col, toRow, true)
	return fmt.Sprintf("'%s'!%s:%s", sheet, from, to)
}

// writeBanner renders the merged banner and subtitle across width columns
// starting at row 1 and returns the first free row below the spacer.
func writeBanner(f *excelize.File, sheet string, st styleSet, layout Layout, subtitle string, width int) int {
	row := 1
	for _, line := range layout.Institution {
		_ = f.MergeCell(sheet, cellRef(1, row), cellRef(width, row))
		_ = f.SetCellValue(sheet, cellRef(1, row), line)
		_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(width, row), st.banner)
		row++
	}
	if layout.AcademicYear != "" {
		subtitle = fmt.Sprintf("%s (%s)", subtitle, layout.AcademicYear)
	}
	_ = f.MergeCell(sheet, cellRef(1, row), cellRef(width, row))
	_ = f.SetCellValue(sheet, cellRef(1, row), subtitle)
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(width, row), st.title)
	_ = f.SetRowHeight(sheet, row, 22)

	// One spacer row between banner and table.
	return row + 2
}

// writeHeaderRow renders a styled table header and returns the next row.
func writeHeaderRow(f *excelize.File, sheet string, st styleSet, row int, headers []string) int {
	for i, h := range headers {
		_ = f.SetCellValue(sheet, cellRef(i+1, row), h)
	}
	_ = f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), st.header)
	_ = f.SetRowHeight(sheet, row, 30)
	return row + 1
}

var sheetNameSanitizer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ",
)

// sanitizeSheetName reduces free text to a legal worksheet name.
func sanitizeSheetName(name string) string {
	s := strings.TrimSpace(sheetNameSanitizer.Replace(name))
	if s == "" {
		s = "Sheet"
	}
	if len(s) > 31 {
		s = strings.TrimSpace(s[:31])
	}
	return s
}

// sheetNamer hands out collision-free sheet names; grouped inputs can
// collide after sanitizing and truncation.
type sheetNamer struct {
	used map[string]int
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]int)}
}

func (n *sheetNamer) name(base string) string {
	s := sanitizeSheetName(base)
	n.used[s]++
	if c := n.used[s]; c > 1 {
		suffix := fmt.Sprintf(" (%d)", c)
		if len(s)+len(suffix) > 31 {
			s = strings.TrimSpace(s[:31-len(suffix)])
		}
		s += suffix
	}
	return s
}

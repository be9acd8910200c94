package document

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Geometry thresholds for rebuilding cells from a row's positioned text
// runs. Gaps are measured relative to the run's font size, so the same
// factors work across templates printed at different point sizes.
const (
	// minTableRows is how many multi-cell rows a page needs before its
	// rows are exposed as a table.
	minTableRows = 2

	// cellGapFactor is the horizontal gap, in font-size units, that starts
	// a new cell.
	cellGapFactor = 1.2

	// spaceGapFactor is the smaller gap that still separates words inside
	// one cell. Anything tighter is a continuation of the same word.
	spaceGapFactor = 0.25

	// defaultFontSize substitutes for runs that carry no size information.
	defaultFontSize = 10.0
)

// rowCells clusters one row's text runs into cell strings. Runs arrive
// sorted by X. Adjacent runs are joined directly, visibly separated runs get
// a word space, and column-sized gaps split the row into separate cells.
func rowCells(words []pdf.Text) []string {
	var cells []string
	var cell strings.Builder
	prevEnd := 0.0
	first := true

	flush := func() {
		if s := strings.TrimSpace(cell.String()); s != "" {
			cells = append(cells, s)
		}
		cell.Reset()
	}

	for _, w := range words {
		if w.S == "" {
			continue
		}
		size := w.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		if !first {
			gap := w.X - prevEnd
			switch {
			case gap > size*cellGapFactor:
				flush()
			case gap > size*spaceGapFactor:
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(w.S)
		prevEnd = w.X + w.W
		first = false
	}
	flush()

	return cells
}

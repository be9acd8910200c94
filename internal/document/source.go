// Package document reads the native text layer of institutional report PDFs.
//
// It produces line-structured text and reconstructed tables from the
// positioned text runs of each page, and computes the density signal that
// decides whether native output can be trusted at all or the document has to
// be routed to text recognition instead.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"resultex/internal/logger"
)

// DensityThreshold is the minimum stripped-text length for a document to be
// treated as born-digital. Anything shorter is presumed scanned and native
// output must not be used for matching.
const DensityThreshold = 50

// Content is the native text layer of one document.
type Content struct {
	Text   string       // page text, one physical line per text row
	Tables [][][]string // reconstructed tables, one per table-like page
	Pages  int          // page count reported by the file
}

// Scanned reports whether the text layer is too sparse to trust.
func (c *Content) Scanned() bool {
	return len(strings.TrimSpace(c.Text)) < DensityThreshold
}

// Load parses the native text layer of a PDF held in memory. Individual
// pages that cannot be parsed are logged and skipped; Load fails only when
// the file itself cannot be opened or reports no pages.
func Load(data []byte) (content *Content, err error) {
	const op = "Load"

	// The underlying parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = NewDocumentError(op, ErrInvalidDocument, fmt.Sprintf("parser panic: %v", r))
		}
	}()

	if len(data) == 0 {
		return nil, NewDocumentError(op, ErrEmptyDocument, "no bytes provided")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, WrapDocumentError(op, err, "failed to open document")
	}

	pages := reader.NumPage()
	if pages == 0 {
		return nil, NewDocumentError(op, ErrEmptyDocument, "reader reported zero pages")
	}

	log := logger.WithComponent("document")

	var text strings.Builder
	var tables [][][]string
	for i := 1; i <= pages; i++ {
		pageText, table, pageErr := readPage(reader, i)
		if pageErr != nil {
			log.Warn().Err(pageErr).Int("page", i).Msg("Skipping unreadable page")
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			text.WriteString(pageText)
			text.WriteString("\n")
		}
		if table != nil {
			tables = append(tables, table)
		}
	}

	return &Content{Text: text.String(), Tables: tables, Pages: pages}, nil
}

// readPage extracts one page's line text and, when the page looks tabular,
// its reconstructed table. Panics from the parser are contained so a bad
// page cannot abort the rest of the document.
func readPage(reader *pdf.Reader, n int) (text string, table [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, table = "", nil
			err = fmt.Errorf("page %d: parser panic: %v", n, r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", nil, fmt.Errorf("page %d: missing page object", n)
	}

	rows, rowErr := page.GetTextByRow()
	if rowErr != nil || len(rows) == 0 {
		// No row geometry; fall back to the flat text stream so the page
		// still contributes to the density signal and metadata scan.
		return flatPageText(page, n)
	}

	cellRows := make([][]string, 0, len(rows))
	lines := make([]string, 0, len(rows))
	multiCell := 0
	for _, row := range rows {
		cells := rowCells(row.Content)
		if len(cells) == 0 {
			continue
		}
		if len(cells) > 1 {
			multiCell++
		}
		cellRows = append(cellRows, cells)
		lines = append(lines, strings.Join(cells, " "))
	}

	text = strings.Join(lines, "\n")
	if multiCell < minTableRows {
		return text, nil, nil
	}
	return text, cellRows, nil
}

// flatPageText decodes the page's raw text stream without row structure.
func flatPageText(page pdf.Page, n int) (string, [][]string, error) {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		if _, ok := fonts[name]; !ok {
			f := page.Font(name)
			fonts[name] = &f
		}
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return "", nil, fmt.Errorf("page %d: %w", n, err)
	}
	return text, nil, nil
}

package extract

import (
	"strings"

	"resultex/pkg/models"
)

// query describes one matching pass over a document. In teacher mode norm
// holds the normalized target and only containing rows qualify; in overall
// mode every data row qualifies and norm is unused.
type query struct {
	norm         string
	overall      bool
	headerTokens []string
	skipTokens   []string
}

func teacherQuery(norm string) query {
	return query{
		norm:         norm,
		headerTokens: []string{"Faculty Name"},
	}
}

func overallQuery() query {
	return query{
		overall:      true,
		headerTokens: []string{"Faculty Name", "Test Component", "S.No"},
		skipTokens:   []string{"Total", "Range"},
	}
}

// matchTableRows scans every row of every extracted table. Header rows are
// skipped before any matching. In teacher mode a cell holding an internal
// line break is treated as a merged multi-row block: its lines go through
// the line matcher, and a successful merged match consumes the whole row.
func matchTableRows(tables [][][]string, q query) []models.MatchRecord {
	var records []models.MatchRecord
	for _, table := range tables {
		for _, row := range table {
			if isHeaderRow(row, q.headerTokens) {
				continue
			}
			if !q.overall {
				if merged := matchMergedCell(row, q); len(merged) > 0 {
					records = append(records, merged...)
					continue
				}
			}
			if rec, ok := matchRow(row, q); ok {
				records = append(records, rec)
			}
		}
	}
	return records
}

func isHeaderRow(row []string, tokens []string) bool {
	for _, cell := range row {
		for _, token := range tokens {
			if strings.Contains(cell, token) {
				return true
			}
		}
	}
	return false
}

// matchMergedCell handles PDF extractors collapsing several visual rows into
// one cell. The first line-broken cell containing the target has its lines
// matched individually; the row is consumed only if at least one line yields
// a record, otherwise scanning falls through to the standard row path.
func matchMergedCell(row []string, q query) []models.MatchRecord {
	for _, cell := range row {
		if !strings.Contains(cell, "\n") {
			continue
		}
		if !strings.Contains(NormalizeName(cell), q.norm) {
			continue
		}
		var records []models.MatchRecord
		for _, line := range strings.Split(cell, "\n") {
			if rec, ok := matchLine(line, q); ok {
				records = append(records, rec)
			}
		}
		if len(records) > 0 {
			return records
		}
	}
	return nil
}

// matchRow tests one table row. In teacher mode the first cell containing
// the normalized target supplies the faculty name; the metric vector always
// comes from the whole row, since the numbers usually live in the cells
// after the name.
func matchRow(row []string, q query) (models.MatchRecord, bool) {
	var nameCell string
	if !q.overall {
		found := false
		for _, cell := range row {
			if strings.Contains(NormalizeName(cell), q.norm) {
				nameCell = cell
				found = true
				break
			}
		}
		if !found {
			return models.MatchRecord{}, false
		}
	}
	metrics, ok := ParseRowMetrics(row)
	if !ok {
		return models.MatchRecord{}, false
	}
	rec := models.MatchRecord{
		RawRow:  append([]string(nil), row...),
		Metrics: metrics,
	}
	if !q.overall {
		rec.FacultyName = CleanFacultyName(nameCell)
	}
	return rec, true
}

// matchLine tests one physical text line. Overall mode skips totals and
// range-header lines by token; teacher mode requires the normalized line to
// contain the target. Either way the line must carry a full metric vector.
func matchLine(line string, q query) (models.MatchRecord, bool) {
	if strings.TrimSpace(line) == "" {
		return models.MatchRecord{}, false
	}
	if q.overall {
		for _, token := range q.skipTokens {
			if strings.Contains(line, token) {
				return models.MatchRecord{}, false
			}
		}
	} else if !strings.Contains(NormalizeName(line), q.norm) {
		return models.MatchRecord{}, false
	}
	metrics, ok := LineMetrics(line)
	if !ok {
		return models.MatchRecord{}, false
	}
	rec := models.MatchRecord{
		RawRow:  []string{line},
		Metrics: metrics,
	}
	if !q.overall {
		rec.FacultyName = CleanFacultyName(strings.TrimSpace(line))
	}
	return rec, true
}

// matchTextLines runs the line matcher over every line of a text body.
func matchTextLines(text string, q query) []models.MatchRecord {
	var records []models.MatchRecord
	for _, line := range strings.Split(text, "\n") {
		if rec, ok := matchLine(line, q); ok {
			records = append(records, rec)
		}
	}
	return records
}

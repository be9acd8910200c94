// Package attendance parses student attendance shortages out of recognized
// report text. Attendance sheets arrive as scans, so the pipeline only ever
// sees recognition output; the extraction cascade of the result pipeline
// does not apply here.
package attendance

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"resultex/internal/ocr"
	"resultex/pkg/models"
)

// Patterns for the fixed institutional sheet formats.
var (
	regNumberPattern = regexp.MustCompile(`RA\d{13}`)
	subjectPattern   = regexp.MustCompile(`\d{2}[A-Z]{3}\d{3}[A-Z]\([A-Z]\)`)
	percentPattern   = regexp.MustCompile(`\b(\d+\.\d{2})\b`)

	// namePattern captures the student name between the registration number
	// and the first subject code or column separator on the same line.
	namePattern = regexp.MustCompile(`RA\d{13}\s*\|?\s*([A-Z][A-Z\s]+?)(?:\d{2}[A-Z]{3}|\||$)`)
)

// Config bounds the percentage association heuristics.
type Config struct {
	// LowAttendanceThreshold keeps only percentages strictly below this value.
	LowAttendanceThreshold float64

	// LookaheadChars is how many characters after a subject code may hold that
	// subject's percentage in the window text.
	LookaheadChars int
}

// DefaultConfig returns the institutional defaults: shortage means strictly
// under 75 percent attendance, with the value printed within 50 characters
// of its subject code.
func DefaultConfig() Config {
	return Config{LowAttendanceThreshold: 75, LookaheadChars: 50}
}

// Parser extracts per-student shortage records from recognized text. It is
// stateless between calls.
type Parser struct {
	config Config
	log    zerolog.Logger
}

// NewParser creates a Parser. Zero config fields fall back to DefaultConfig
// values.
func NewParser(config Config, log zerolog.Logger) *Parser {
	defaults := DefaultConfig()
	if config.LowAttendanceThreshold <= 0 {
		config.LowAttendanceThreshold = defaults.LowAttendanceThreshold
	}
	if config.LookaheadChars <= 0 {
		config.LookaheadChars = defaults.LookaheadChars
	}
	return &Parser{config: config, log: log}
}

// Parse walks recognized text line by line. A line carrying a registration
// number opens that student's context; while a context is open, each line is
// searched together with the next two for subject codes, and each code for a
// nearby percentage. Only percentages strictly below the threshold are kept,
// and only the first qualifying value per (student, subject) pair; the
// overlapping windows would otherwise record every subject three times.
// Students without any qualifying subject are omitted from the result.
func (p *Parser) Parse(text string) []models.StudentAttendanceRecord {
	lines := strings.Split(text, "\n")

	type pairKey struct{ reg, subject string }
	recorded := make(map[pairKey]bool)
	byReg := make(map[string]*models.StudentAttendanceRecord)
	var order []string

	var currentReg string
	for i, line := range lines {
		if reg := regNumberPattern.FindString(line); reg != "" {
			currentReg = reg
			if _, ok := byReg[reg]; !ok {
				byReg[reg] = &models.StudentAttendanceRecord{
					RegNumber: reg,
					Name:      studentName(line),
				}
				order = append(order, reg)
			}
		}
		if currentReg == "" {
			continue
		}

		window := windowText(lines, i)
		for _, loc := range subjectPattern.FindAllStringIndex(window, -1) {
			subject := window[loc[0]:loc[1]]
			key := pairKey{currentReg, subject}
			if recorded[key] {
				continue
			}
			pct, ok := p.percentAfter(window, loc[1])
			if !ok || pct >= p.config.LowAttendanceThreshold {
				continue
			}
			recorded[key] = true
			byReg[currentReg].Subjects = append(byReg[currentReg].Subjects, models.SubjectAttendance{
				SubjectCode: subject,
				Percentage:  pct,
			})
		}
	}

	records := make([]models.StudentAttendanceRecord, 0, len(order))
	for _, reg := range order {
		rec := byReg[reg]
		if len(rec.Subjects) == 0 {
			continue
		}
		records = append(records, *rec)
	}
	return records
}

// ExtractPDF recognizes the document through the gateway and parses the
// resulting text. Empty recognition output fails the call; there is nothing
// else to read an attendance scan with.
func (p *Parser) ExtractPDF(ctx context.Context, gateway *ocr.Gateway, data []byte) ([]models.StudentAttendanceRecord, error) {
	const op = "ExtractPDF"

	text := gateway.Recognize(ctx, data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoText)
	}

	records := p.Parse(text)
	p.log.Info().
		Int("students", len(records)).
		Msg("Parsed attendance shortage records")
	return records, nil
}

// windowText joins a line with the two that follow it. Subject codes and
// their percentages often straddle a line break in recognized text.
func windowText(lines []string, i int) string {
	end := i + 3
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[i:end], " ")
}

// percentAfter finds the first percentage value inside the lookahead region
// after a subject code match.
func (p *Parser) percentAfter(window string, from int) (float64, bool) {
	to := from + p.config.LookaheadChars
	if to > len(window) {
		to = len(window)
	}
	m := percentPattern.FindStringSubmatch(window[from:to])
	if m == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

// studentName pulls the display name from a registration line; sheets that
// break the expected layout yield the Unknown sentinel rather than a
// half-parsed fragment.
func studentName(line string) string {
	m := namePattern.FindStringSubmatch(line)
	if m == nil {
		return models.UnknownStudent
	}
	name := strings.Join(strings.Fields(m[1]), " ")
	if name == "" {
		return models.UnknownStudent
	}
	return name
}

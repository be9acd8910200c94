package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resultex/internal/document"
	"resultex/internal/ocr"
	"resultex/pkg/models"
)

// Pipeline runs the cascading extraction strategies over one document per
// call: native table matching first, native line matching second, recognized
// text last. It holds no per-document state, so a single Pipeline is safe to
// share across goroutines.
type Pipeline struct {
	gateway *ocr.Gateway
	log     zerolog.Logger
	load    func([]byte) (*document.Content, error)
}

// New creates a Pipeline with the given recognition gateway and logger. The
// gateway may be nil; recognition then always yields empty text and scanned
// documents simply produce no matches.
func New(gateway *ocr.Gateway, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		gateway: gateway,
		log:     log,
		load:    document.Load,
	}
}

// source is the lazily-populated per-document state shared by strategies.
type source struct {
	data    []byte
	content *document.Content
	loadErr error
	gateway *ocr.Gateway
	ocrText string
	ocrDone bool
}

// nativeUsable reports whether the native text layer may be used for
// matching. A failed parse or a sparse text layer rules it out entirely;
// matching against the garbled fragments of a scanned page would produce
// false rows.
func (s *source) nativeUsable() bool {
	return s.loadErr == nil && s.content != nil && !s.content.Scanned()
}

// recognized memoizes the gateway round trip so strategies and metadata
// parsing share one recognition call per document.
func (s *source) recognized(ctx context.Context) string {
	if !s.ocrDone {
		s.ocrText = s.gateway.Recognize(ctx, s.data)
		s.ocrDone = true
	}
	return s.ocrText
}

// strategy attempts extraction from one source representation.
type strategy interface {
	name() string
	run(ctx context.Context, src *source, q query) (attempt, bool)
}

// attempt carries a strategy's matches plus the text they were found in,
// which downstream metadata parsing reuses.
type attempt struct {
	records []models.MatchRecord
	text    string
	method  models.Method
}

var strategies = []strategy{
	tableStrategy{},
	textLineStrategy{},
	recognizedTextStrategy{},
}

type tableStrategy struct{}

func (tableStrategy) name() string { return "table" }

func (tableStrategy) run(_ context.Context, src *source, q query) (attempt, bool) {
	if !src.nativeUsable() {
		return attempt{}, false
	}
	records := matchTableRows(src.content.Tables, q)
	if len(records) == 0 {
		return attempt{}, false
	}
	return attempt{records: records, text: src.content.Text, method: nativeMethod(q)}, true
}

type textLineStrategy struct{}

func (textLineStrategy) name() string { return "line" }

func (textLineStrategy) run(_ context.Context, src *source, q query) (attempt, bool) {
	if !src.nativeUsable() {
		return attempt{}, false
	}
	records := matchTextLines(src.content.Text, q)
	if len(records) == 0 {
		return attempt{}, false
	}
	return attempt{records: records, text: src.content.Text, method: nativeMethod(q)}, true
}

// recognizedTextStrategy is the fallback for documents whose native layer is
// unusable. A dense native document that merely had no matches stays out of
// recognition; the absence of rows there is an answer, not a parse failure.
type recognizedTextStrategy struct{}

func (recognizedTextStrategy) name() string { return "recognized" }

func (recognizedTextStrategy) run(ctx context.Context, src *source, q query) (attempt, bool) {
	if src.nativeUsable() {
		return attempt{}, false
	}
	text := src.recognized(ctx)
	if strings.TrimSpace(text) == "" {
		return attempt{}, false
	}
	records := matchTextLines(text, q)
	if len(records) == 0 {
		return attempt{}, false
	}
	return attempt{records: records, text: text, method: models.MethodOCR}, true
}

func nativeMethod(q query) models.Method {
	if q.overall {
		return models.MethodNativeOverall
	}
	return models.MethodNative
}

// run tries each strategy in order and stops at the first that matches.
func (p *Pipeline) run(ctx context.Context, data []byte, q query) (attempt, bool) {
	src := &source{data: data, gateway: p.gateway}
	src.content, src.loadErr = p.load(data)
	if src.loadErr != nil {
		p.log.Warn().Err(src.loadErr).Msg("Native parse failed, document routed to recognition")
	} else if src.content.Scanned() {
		p.log.Info().
			Int("pages", src.content.Pages).
			Msg("Sparse text layer, document routed to recognition")
	}

	for _, st := range strategies {
		att, ok := st.run(ctx, src, q)
		if !ok {
			continue
		}
		p.log.Debug().
			Str("strategy", st.name()).
			Int("matches", len(att.records)).
			Msg("Extraction strategy matched")
		return att, true
	}
	return attempt{}, false
}

// ExtractTeacher finds every row attributable to the named teacher in one
// document. A document without matches yields an empty result set and no
// error; the only rejected input is a name that normalizes to nothing.
func (p *Pipeline) ExtractTeacher(ctx context.Context, data []byte, teacherName string) ([]models.ExtractionResult, error) {
	const op = "ExtractTeacher"

	norm := NormalizeName(teacherName)
	if norm == "" {
		return nil, NewExtractError(op, ErrEmptyQuery, fmt.Sprintf("target %q", teacherName))
	}

	att, ok := p.run(ctx, data, teacherQuery(norm))
	if !ok {
		p.log.Info().Str("teacher", teacherName).Msg("No data found for teacher in document")
		return nil, nil
	}

	meta := ParseMetadata(att.text)
	results := make([]models.ExtractionResult, 0, len(att.records))
	for _, rec := range att.records {
		results = append(results, models.ExtractionResult{
			Course:      meta.Course,
			SubjectCode: meta.SubjectCode,
			TestName:    meta.TestName,
			Data:        models.AggregatedRecord{MatchRecord: rec, MatchCount: 1},
			Method:      att.method,
			SourceText:  att.text,
		})
	}
	return results, nil
}

// ExtractOverall merges every qualifying data row of the document into a
// single aggregated result. A document without data rows returns
// ErrNoMatches; batch callers treat that as a skip, not a failure.
func (p *Pipeline) ExtractOverall(ctx context.Context, data []byte) (models.ExtractionResult, error) {
	const op = "ExtractOverall"

	att, ok := p.run(ctx, data, overallQuery())
	if !ok {
		return models.ExtractionResult{}, NewExtractError(op, ErrNoMatches, "")
	}

	agg, err := Aggregate(att.records)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	meta := ParseMetadata(att.text)
	return models.ExtractionResult{
		Course:      meta.Course,
		SubjectCode: meta.SubjectCode,
		TestName:    meta.TestName,
		Data:        agg,
		Method:      att.method,
		SourceText:  att.text,
	}, nil
}

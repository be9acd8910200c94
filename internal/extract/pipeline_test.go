package extract

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"resultex/internal/document"
	"resultex/internal/ocr"
	"resultex/pkg/models"
)

type stubRecognizer struct {
	text  string
	err   error
	calls int
}

func (s *stubRecognizer) ProcessPDF(_ context.Context, _ io.Reader) (string, error) {
	s.calls++
	return s.text, s.err
}

// testPipeline wires a Pipeline whose document loader and recognizer are
// both controlled by the test.
func testPipeline(t *testing.T, content *document.Content, loadErr error, rec *stubRecognizer) *Pipeline {
	t.Helper()
	var gw *ocr.Gateway
	if rec != nil {
		gw = ocr.NewGateway(rec, time.Second)
	}
	p := New(gw, zerolog.Nop())
	p.load = func([]byte) (*document.Content, error) { return content, loadErr }
	return p
}

// denseText pads page text past the density threshold so the native layer
// counts as born-digital.
func denseText(lines ...string) string {
	text := "Course : 21CSC205P - Database Management Systems\nTest Name : FT1\n"
	for _, l := range lines {
		text += l + "\n"
	}
	return text
}

func TestExtractTeacher_EmptyQueryRejected(t *testing.T) {
	p := testPipeline(t, nil, errors.New("never reached"), nil)
	for _, q := range []string{"", "   ", " . . "} {
		if _, err := p.ExtractTeacher(context.Background(), []byte("pdf"), q); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("ExtractTeacher(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestExtractTeacher_TablesWinOverLines(t *testing.T) {
	content := &document.Content{
		Text: denseText("107 Dr.Kumar Anand 99 5 10 83.33 5 10 15 10 8 7"),
		Tables: [][][]string{{
			{"S.No", "Faculty Name"},
			{"1", "Dr.Kumar Anand", "60", "5", "10", "83.33", "5", "10", "15", "10", "8", "7"},
		}},
		Pages: 1,
	}
	rec := &stubRecognizer{text: "should never be consulted"}
	p := testPipeline(t, content, nil, rec)

	results, err := p.ExtractTeacher(context.Background(), []byte("pdf"), "Dr. Kumar Anand")
	if err != nil {
		t.Fatalf("ExtractTeacher() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	res := results[0]
	if res.Method != models.MethodNative {
		t.Errorf("Method = %q, want %q", res.Method, models.MethodNative)
	}
	// The text line carries strength 99; only the table row carries 60.
	if got := res.Data.Strength(); got != 60 {
		t.Errorf("Strength = %v, want 60 from the table row, not the text line", got)
	}
	if res.Course != "21CSC205P - Database Management Systems" {
		t.Errorf("Course = %q", res.Course)
	}
	if res.SubjectCode != "21CSC205P" {
		t.Errorf("SubjectCode = %q", res.SubjectCode)
	}
	if res.TestName != "FT1" {
		t.Errorf("TestName = %q", res.TestName)
	}
	if res.Data.MatchCount != 1 {
		t.Errorf("MatchCount = %d, want 1", res.Data.MatchCount)
	}
	if res.SourceText != content.Text {
		t.Error("SourceText must be the native text the match came from")
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times, want 0", rec.calls)
	}
}

func TestExtractTeacher_LineFallbackOnSameText(t *testing.T) {
	content := &document.Content{
		Text: denseText("107 Dr.Kumar Anand 40 0 5 87.50 2 4 9 10 6 4"),
		Tables: [][][]string{{
			{"1", "Ms.Jane Doe", "60", "5", "10", "83.33", "5", "10", "15", "10", "8", "7"},
		}},
		Pages: 1,
	}
	p := testPipeline(t, content, nil, nil)

	results, err := p.ExtractTeacher(context.Background(), []byte("pdf"), "drkumaranand")
	if err != nil {
		t.Fatalf("ExtractTeacher() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 from the line fallback", len(results))
	}
	if results[0].Method != models.MethodNative {
		t.Errorf("Method = %q, want %q", results[0].Method, models.MethodNative)
	}
	if results[0].Data.Strength() != 40 {
		t.Errorf("Strength = %v, want 40", results[0].Data.Strength())
	}
}

func TestExtractTeacher_DenseNoMatchStaysOffRecognition(t *testing.T) {
	content := &document.Content{
		Text:  denseText("107 Ms.Jane Doe 40 0 5 87.50 2 4 9 10 6 4"),
		Pages: 1,
	}
	rec := &stubRecognizer{text: "107 Dr.Kumar Anand 60 5 10 83.33 5 10 15 10 8 7"}
	p := testPipeline(t, content, nil, rec)

	results, err := p.ExtractTeacher(context.Background(), []byte("pdf"), "drkumaranand")
	if err != nil {
		t.Fatalf("ExtractTeacher() error = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want none", len(results))
	}
	// No match in a readable document is an answer, not a reason to pay
	// for recognition.
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times on a dense document, want 0", rec.calls)
	}
}

func TestExtractTeacher_ScannedRoutesToRecognition(t *testing.T) {
	content := &document.Content{Text: "scan\n", Pages: 2}
	rec := &stubRecognizer{
		text: "Course : 21MAB301T - Probability\nTest Name : CT2\n" +
			"107 Dr.Kumar Anand 60 5 10 83.33 5 10 15 10 8 7",
	}
	p := testPipeline(t, content, nil, rec)

	results, err := p.ExtractTeacher(context.Background(), []byte("pdf"), "Dr Kumar Anand")
	if err != nil {
		t.Fatalf("ExtractTeacher() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]
	if res.Method != models.MethodOCR {
		t.Errorf("Method = %q, want %q", res.Method, models.MethodOCR)
	}
	if res.SourceText != rec.text {
		t.Error("SourceText must be the recognized text")
	}
	if res.SubjectCode != "21MAB301T" || res.TestName != "CT2" {
		t.Errorf("metadata = (%q, %q), want parsed from recognized text", res.SubjectCode, res.TestName)
	}
	if rec.calls != 1 {
		t.Errorf("recognizer called %d times, want exactly 1", rec.calls)
	}
}

func TestExtractTeacher_LoadFailureRoutesToRecognition(t *testing.T) {
	rec := &stubRecognizer{text: "107 Dr.Kumar Anand 60 5 10 83.33 5 10 15 10 8 7"}
	p := testPipeline(t, nil, errors.New("parser panic: malformed xref"), rec)

	results, err := p.ExtractTeacher(context.Background(), []byte("not a pdf"), "drkumaranand")
	if err != nil {
		t.Fatalf("ExtractTeacher() error = %v", err)
	}
	if len(results) != 1 || results[0].Method != models.MethodOCR {
		t.Fatalf("results = %v, want one recognition-backed result", results)
	}
	if results[0].Course != models.UnknownCourse {
		t.Errorf("Course = %q, want the sentinel when recognized text has no labels", results[0].Course)
	}
}

func TestExtractTeacher_RecognitionFailureYieldsNoMatches(t *testing.T) {
	rec := &stubRecognizer{err: errors.New("service down")}
	p := testPipeline(t, &document.Content{Text: "scan", Pages: 1}, nil, rec)

	results, err := p.ExtractTeacher(context.Background(), []byte("pdf"), "drkumar")
	if err != nil {
		t.Fatalf("ExtractTeacher() error = %v, want silent degradation", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want none", len(results))
	}
}

func TestExtractOverall_AggregatesAllRows(t *testing.T) {
	content := &document.Content{
		Text: denseText(),
		Tables: [][][]string{{
			{"S.No", "Faculty Name", "Total Strength"},
			{"1", "Dr.Kumar Anand", "60", "5", "10", "83.33", "5", "10", "15", "10", "8", "7"},
			{"2", "Ms.Jane Doe", "40", "0", "5", "87.50", "2", "4", "9", "10", "6", "4"},
		}},
		Pages: 1,
	}
	p := testPipeline(t, content, nil, nil)

	res, err := p.ExtractOverall(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ExtractOverall() error = %v", err)
	}
	if res.Method != models.MethodNativeOverall {
		t.Errorf("Method = %q, want %q", res.Method, models.MethodNativeOverall)
	}
	if res.Data.MatchCount != 2 {
		t.Errorf("MatchCount = %d, want 2", res.Data.MatchCount)
	}
	if res.Data.Strength() != 100 || res.Data.Appeared() != 95 || res.Data.Passed() != 80 {
		t.Errorf("aggregate counts = (%v, %v, %v), want (100, 95, 80)",
			res.Data.Strength(), res.Data.Appeared(), res.Data.Passed())
	}
	if res.SubjectCode != "21CSC205P" {
		t.Errorf("SubjectCode = %q", res.SubjectCode)
	}
}

func TestExtractOverall_NoDataReportsErrNoMatches(t *testing.T) {
	content := &document.Content{
		Text:  denseText("nothing that parses as a data row at all"),
		Pages: 1,
	}
	p := testPipeline(t, content, nil, nil)

	if _, err := p.ExtractOverall(context.Background(), []byte("pdf")); !errors.Is(err, ErrNoMatches) {
		t.Fatalf("ExtractOverall() error = %v, want ErrNoMatches", err)
	}
}

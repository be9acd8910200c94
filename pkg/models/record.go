package models

// Indices into the canonical 10-field metric vector. Every matched row or
// line is normalized into this order before it leaves the matchers.
const (
	MetricTotalStrength = iota // class strength for the section
	MetricAbsentees            // students absent for the test
	MetricFailures             // students who appeared and failed
	MetricPassPercentage       // pass percentage as reported or recomputed
	MetricRange0To49           // marks bucket 0-49
	MetricRange50To59          // marks bucket 50-59
	MetricRange60To69          // marks bucket 60-69
	MetricRange70To79          // marks bucket 70-79
	MetricRange80To89          // marks bucket 80-89
	MetricRange90To100         // marks bucket 90-100

	// MetricCount is the fixed length of a metric vector.
	MetricCount = 10
)

// Method identifies which extraction strategy produced a result.
type Method string

const (
	MethodNative        Method = "native"         // born-digital text/table parse
	MethodNativeOverall Method = "native_overall" // unconstrained native parse (overall mode)
	MethodOCR           Method = "ocr"            // recognized-text fallback
)

// MatchRecord is one parsed row or line: the raw source text, the canonical
// metric vector, and the cleaned faculty display name (empty in overall
// mode). Records are value objects; nothing mutates them after parse time.
type MatchRecord struct {
	RawRow      []string  // source cells, or a single element holding the matched line
	Metrics     []float64 // always length MetricCount, canonical order
	FacultyName string    // cleaned display name, "" when no name was targeted
}

// Strength returns the total-strength field.
func (m MatchRecord) Strength() float64 { return m.metric(MetricTotalStrength) }

// Absentees returns the absentee count field.
func (m MatchRecord) Absentees() float64 { return m.metric(MetricAbsentees) }

// Failures returns the failure count field.
func (m MatchRecord) Failures() float64 { return m.metric(MetricFailures) }

// PassPercentage returns the pass-percentage field.
func (m MatchRecord) PassPercentage() float64 { return m.metric(MetricPassPercentage) }

// RangeBuckets returns the six mark-range buckets in ascending order.
func (m MatchRecord) RangeBuckets() []float64 {
	buckets := make([]float64, 0, 6)
	for i := MetricRange0To49; i <= MetricRange90To100; i++ {
		buckets = append(buckets, m.metric(i))
	}
	return buckets
}

// Appeared derives the number of students who sat the test.
func (m MatchRecord) Appeared() float64 { return m.Strength() - m.Absentees() }

// Passed derives the pass count; it is never stored in the vector.
func (m MatchRecord) Passed() float64 { return m.Strength() - m.Absentees() - m.Failures() }

func (m MatchRecord) metric(i int) float64 {
	if i < 0 || i >= len(m.Metrics) {
		return 0
	}
	return m.Metrics[i]
}

// AggregatedRecord is a MatchRecord merged from one or more source records.
// Its pass percentage is recomputed from the summed counts, never averaged.
type AggregatedRecord struct {
	MatchRecord
	MatchCount int // number of source rows merged in
}

// ExtractionResult is the unit returned per document per query. Metadata that
// could not be parsed carries "Unknown ..." sentinel strings, never an error.
type ExtractionResult struct {
	Course      string           // course label, e.g. "21CSC205P - Database Management Systems"
	SubjectCode string           // code derived from the course label, e.g. "21CSC205P"
	TestName    string           // test/component identifier, e.g. "FT1"
	Data        AggregatedRecord // MatchCount is 1 for a single-row teacher match
	Method      Method           // strategy that produced the match
	SourceText  string           // full text the match was parsed from
}

// Sentinel metadata placeholders used when labels are absent from a document.
const (
	UnknownCourse = "Unknown Course"
	UnknownCode   = "Unknown Code"
	UnknownTest   = "Unknown Test"
)

package extract

import (
	"errors"
	"math"
	"testing"

	"resultex/pkg/models"
)

func record(name string, metrics ...float64) models.MatchRecord {
	return models.MatchRecord{
		RawRow:      []string{"row"},
		Metrics:     metrics,
		FacultyName: name,
	}
}

func TestAggregate_Empty(t *testing.T) {
	if _, err := Aggregate(nil); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("Aggregate(nil) error = %v, want ErrNoRecords", err)
	}
}

func TestAggregate_SingleRecordIdentity(t *testing.T) {
	rec := record("Dr.Kumar", 60, 5, 10, 83.33, 5, 10, 15, 10, 8, 7)
	agg, err := Aggregate([]models.MatchRecord{rec})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if agg.MatchCount != 1 {
		t.Errorf("MatchCount = %d, want 1", agg.MatchCount)
	}
	if agg.FacultyName != rec.FacultyName {
		t.Errorf("FacultyName = %q, want %q", agg.FacultyName, rec.FacultyName)
	}
	for i := range rec.Metrics {
		if agg.Metrics[i] != rec.Metrics[i] {
			t.Errorf("metric %d = %v, want %v (single record must pass through unchanged)",
				i, agg.Metrics[i], rec.Metrics[i])
		}
	}
	if agg.PassPercentage() != 83.33 {
		t.Errorf("PassPercentage = %v, want the stored 83.33, not a recomputed value", agg.PassPercentage())
	}
}

func TestAggregate_TwoSections(t *testing.T) {
	recs := []models.MatchRecord{
		record("Dr.Kumar", 60, 5, 10, 83.33, 5, 10, 15, 10, 8, 7),
		record("Dr.Kumar Anand", 40, 0, 5, 87.50, 2, 4, 9, 10, 6, 4),
	}
	agg, err := Aggregate(recs)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if agg.Strength() != 100 || agg.Absentees() != 5 || agg.Failures() != 15 {
		t.Errorf("summed counts = (%v, %v, %v), want (100, 5, 15)",
			agg.Strength(), agg.Absentees(), agg.Failures())
	}
	if agg.Appeared() != 95 || agg.Passed() != 80 {
		t.Errorf("derived counts = (appeared %v, passed %v), want (95, 80)",
			agg.Appeared(), agg.Passed())
	}
	wantPct := 80.0 / 95.0 * 100
	if math.Abs(agg.PassPercentage()-wantPct) > 1e-9 {
		t.Errorf("PassPercentage = %v, want %v (recomputed from summed counts)",
			agg.PassPercentage(), wantPct)
	}

	wantBuckets := []float64{7, 14, 24, 20, 14, 11}
	for i, b := range agg.RangeBuckets() {
		if b != wantBuckets[i] {
			t.Errorf("bucket %d = %v, want %v", i, b, wantBuckets[i])
		}
	}

	if agg.MatchCount != 2 {
		t.Errorf("MatchCount = %d, want 2", agg.MatchCount)
	}
	if agg.FacultyName != "Dr.Kumar" {
		t.Errorf("FacultyName = %q, want the first record's name", agg.FacultyName)
	}
	if len(agg.RawRow) != 1 || agg.RawRow[0] != AggregatedRowMarker {
		t.Errorf("RawRow = %v, want the %q marker", agg.RawRow, AggregatedRowMarker)
	}
}

func TestAggregate_NobodyAppeared(t *testing.T) {
	recs := []models.MatchRecord{
		record("A", 10, 10, 0, 0, 0, 0, 0, 0, 0, 0),
		record("A", 5, 5, 0, 0, 0, 0, 0, 0, 0, 0),
	}
	agg, err := Aggregate(recs)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if agg.PassPercentage() != 0 {
		t.Errorf("PassPercentage = %v, want 0 when nobody appeared", agg.PassPercentage())
	}
}

package extract

import "resultex/pkg/models"

// AggregatedRowMarker replaces raw source text on records merged from
// several sections; the individual rows are no longer a single quotable
// line.
const AggregatedRowMarker = "AGGREGATED"

// Aggregate merges matched records into one consistent record. A single
// record passes through unchanged. For several, the count metrics and score
// buckets are summed and the pass percentage recomputed from the summed
// totals; averaging the per-section percentages instead would weight a
// 10-student section the same as a 60-student one.
func Aggregate(records []models.MatchRecord) (models.AggregatedRecord, error) {
	const op = "Aggregate"

	if len(records) == 0 {
		return models.AggregatedRecord{}, NewExtractError(op, ErrNoRecords, "")
	}
	if len(records) == 1 {
		return models.AggregatedRecord{MatchRecord: records[0], MatchCount: 1}, nil
	}

	var strength, absent, failed float64
	buckets := make([]float64, models.MetricCount-models.MetricRange0To49)
	for _, rec := range records {
		strength += rec.Strength()
		absent += rec.Absentees()
		failed += rec.Failures()
		for i, b := range rec.RangeBuckets() {
			buckets[i] += b
		}
	}

	appeared := strength - absent
	passed := appeared - failed
	passPct := 0.0
	if appeared > 0 {
		passPct = passed / appeared * 100
	}

	metrics := make([]float64, 0, models.MetricCount)
	metrics = append(metrics, strength, absent, failed, passPct)
	metrics = append(metrics, buckets...)

	return models.AggregatedRecord{
		MatchRecord: models.MatchRecord{
			RawRow:      []string{AggregatedRowMarker},
			Metrics:     metrics,
			FacultyName: records[0].FacultyName,
		},
		MatchCount: len(records),
	}, nil
}

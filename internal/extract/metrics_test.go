package extract

import (
	"testing"

	"resultex/pkg/models"
)

func TestNumericTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []float64
	}{
		{"mixed signs", "1 2.5 -3 +4.25 abc 5", []float64{1, 2.5, -3, 4.25, 5}},
		{"decimals stay whole", "pass 83.33 of 95", []float64{83.33, 95}},
		{"glued to text", "FT1score91.20ok", []float64{1, 91.20}},
		{"bare fraction", ".5 and .25", []float64{0.5, 0.25}},
		{"no numbers", "no data here", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NumericTokens(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("NumericTokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseRowMetrics(t *testing.T) {
	row := []string{"1", "Dr.Kumar Anand", "60", "5", "10", "83.33%", "5", "10", "15", "10", "8", "7"}
	metrics, ok := ParseRowMetrics(row)
	if !ok {
		t.Fatalf("ParseRowMetrics(%v) reported no vector", row)
	}
	if len(metrics) != models.MetricCount {
		t.Fatalf("vector length = %d, want %d", len(metrics), models.MetricCount)
	}
	// The serial number is the leftmost numeric token and must be the one
	// dropped by the rightmost-10 rule.
	want := []float64{60, 5, 10, 83.33, 5, 10, 15, 10, 8, 7}
	for i := range want {
		if metrics[i] != want[i] {
			t.Errorf("metric %d = %v, want %v", i, metrics[i], want[i])
		}
	}
}

func TestParseRowMetrics_FlattensLineBreaks(t *testing.T) {
	row := []string{"Dr.A", "60\n40", "5", "0", "83.33", "5", "10", "15", "10", "8", "7"}
	metrics, ok := ParseRowMetrics(row)
	if !ok {
		t.Fatal("row with line-broken cell reported no vector")
	}
	// Eleven numeric tokens once the broken cell flattens to "60 40"; the
	// rightmost-10 rule drops the 60.
	if metrics[0] != 40 {
		t.Errorf("metric 0 = %v, want 40 (second value of the broken cell)", metrics[0])
	}
}

func TestParseRowMetrics_TooFewNumbers(t *testing.T) {
	if _, ok := ParseRowMetrics([]string{"Dr.Kumar", "60", "5", "83.33%"}); ok {
		t.Error("row with fewer than 10 numeric tokens must not yield a vector")
	}
	if _, ok := ParseRowMetrics(nil); ok {
		t.Error("empty row must not yield a vector")
	}
}

func TestLineMetrics(t *testing.T) {
	line := "107 Dr.Kumar(123) 60 5 10 83.33 5 10 15 10 8 7"
	metrics, ok := LineMetrics(line)
	if !ok {
		t.Fatalf("LineMetrics(%q) reported no vector", line)
	}
	// 12 numeric tokens on the line; the serial number 107 and the 123
	// embedded in the name are the leading extras to discard.
	want := []float64{60, 5, 10, 83.33, 5, 10, 15, 10, 8, 7}
	for i := range want {
		if metrics[i] != want[i] {
			t.Errorf("metric %d = %v, want %v", i, metrics[i], want[i])
		}
	}

	if _, ok := LineMetrics("Dr.Kumar 60 5 10 83.33"); ok {
		t.Error("line with fewer than 10 numeric tokens must not yield a vector")
	}
}

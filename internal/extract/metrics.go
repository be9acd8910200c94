package extract

import (
	"regexp"
	"strconv"
	"strings"

	"resultex/pkg/models"
)

// numberPattern matches decimal and integer tokens, optionally signed.
// Decimals are tried first so "91.20" is one token, not "91" and "20".
var numberPattern = regexp.MustCompile(`[-+]?\d*\.\d+|[-+]?\d+`)

// NumericTokens returns every numeric token of a line in reading order.
func NumericTokens(line string) []float64 {
	matches := numberPattern.FindAllString(line, -1)
	nums := make([]float64, 0, len(matches))
	for _, m := range matches {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			nums = append(nums, f)
		}
	}
	return nums
}

// ParseRowMetrics extracts the canonical metric vector from a table row.
// Cell text is flattened (percent signs dropped, line breaks spaced out),
// split on whitespace and parsed token by token; non-numeric tokens such as
// the serial number column or the name itself fall away. The rightmost
// MetricCount values are the vector; rows with fewer numeric tokens carry no
// usable data.
func ParseRowMetrics(row []string) ([]float64, bool) {
	var nums []float64
	for _, cell := range row {
		cleaned := strings.TrimSpace(strings.ReplaceAll(cell, "%", ""))
		for _, token := range strings.Fields(strings.ReplaceAll(cleaned, "\n", " ")) {
			if f, err := strconv.ParseFloat(token, 64); err == nil {
				nums = append(nums, f)
			}
		}
	}
	if len(nums) < models.MetricCount {
		return nil, false
	}
	return nums[len(nums)-models.MetricCount:], true
}

// LineMetrics extracts the metric vector from a free-text line. Unlike the
// row parser it tokenizes by regex rather than whitespace, so values glued
// to other text by OCR still surface. Leading extras (serial numbers, codes
// embedded in the name) are discarded by keeping the rightmost MetricCount.
func LineMetrics(line string) ([]float64, bool) {
	nums := NumericTokens(line)
	if len(nums) < models.MetricCount {
		return nil, false
	}
	return nums[len(nums)-models.MetricCount:], true
}

package extract

import (
	"regexp"
	"strings"
)

var nameNormalizer = strings.NewReplacer(".", "", " ", "")

// NormalizeName lowercases a name and removes dots and spaces. Reports write
// the same person as "Dr. A. Kumar", "Dr.A.Kumar" or "DR A KUMAR" depending
// on who typed the sheet; containment checks on the normalized form tolerate
// all of them.
func NormalizeName(name string) string {
	return strings.TrimSpace(nameNormalizer.Replace(strings.ToLower(name)))
}

var (
	leadingSerialPattern   = regexp.MustCompile(`^\d+\s+`)
	trailingMetricsPattern = regexp.MustCompile(`(.*?)(?:\s+\d+(?:\.\d+)?)+\s*$`)
)

// CleanFacultyName reduces a matched row's text to the display name: a
// leading serial number is stripped, then the trailing run of metric values.
// Digits inside the name survive because the trailing pattern is anchored to
// the end of the string.
func CleanFacultyName(raw string) string {
	text := leadingSerialPattern.ReplaceAllString(raw, "")
	if m := trailingMetricsPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

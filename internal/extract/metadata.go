package extract

import (
	"regexp"
	"strings"

	"resultex/pkg/models"
)

// Label whitespace is restricted to spaces and tabs so a blank value cannot
// swallow the following line.
var (
	courseLabelPattern = regexp.MustCompile(`(?im)^[ \t]*Course[ \t]*[:-][ \t]*(.*)$`)
	testLabelPattern   = regexp.MustCompile(`(?im)^[ \t]*Test[ \t]+Name[ \t]*[:-][ \t]*(.*)$`)
)

// Metadata is the labeling block of a report: which course the sheet covers
// and which test it scores.
type Metadata struct {
	Course      string
	SubjectCode string
	TestName    string
}

// ParseMetadata scans document text for the course and test labels. The
// labels are matched per line, case-insensitively, with ":" or "-" as the
// separator. Absent or blank labels yield the Unknown sentinels, never an
// error; a report without a header is still worth extracting.
func ParseMetadata(text string) Metadata {
	meta := Metadata{
		Course:      models.UnknownCourse,
		SubjectCode: models.UnknownCode,
		TestName:    models.UnknownTest,
	}
	if m := courseLabelPattern.FindStringSubmatch(text); m != nil {
		if course := strings.TrimSpace(m[1]); course != "" {
			meta.Course = course
			meta.SubjectCode = subjectCodeFrom(course)
		}
	}
	if m := testLabelPattern.FindStringSubmatch(text); m != nil {
		if test := strings.TrimSpace(m[1]); test != "" {
			meta.TestName = test
		}
	}
	return meta
}

// subjectCodeFrom derives the short code from a course label: the part
// before the first dash when there is one ("21CSC203P - Advanced..."),
// otherwise the first whitespace-delimited token.
func subjectCodeFrom(course string) string {
	if before, _, found := strings.Cut(course, "-"); found {
		if code := strings.TrimSpace(before); code != "" {
			return code
		}
		return models.UnknownCode
	}
	if fields := strings.Fields(course); len(fields) > 0 {
		return fields[0]
	}
	return models.UnknownCode
}

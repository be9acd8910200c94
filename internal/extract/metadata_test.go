package extract

import (
	"testing"

	"resultex/pkg/models"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantCourse string
		wantCode   string
		wantTest   string
	}{
		{
			name:       "colon separators",
			text:       "SRM Institute\nCourse : 21CSC205P - Database Management Systems\nTest Name : FT1\n",
			wantCourse: "21CSC205P - Database Management Systems",
			wantCode:   "21CSC205P",
			wantTest:   "FT1",
		},
		{
			name:       "dash separators",
			text:       "Course - 18CSC303J Data Structures\nTest Name - CLA 2",
			wantCourse: "18CSC303J Data Structures",
			wantCode:   "18CSC303J",
			wantTest:   "CLA 2",
		},
		{
			name:       "case insensitive labels",
			text:       "COURSE: 21MAB301T - Probability\nTEST NAME: Cycle Test 1",
			wantCourse: "21MAB301T - Probability",
			wantCode:   "21MAB301T",
			wantTest:   "Cycle Test 1",
		},
		{
			name:       "no labels",
			text:       "some page without any header block\n1 Dr.K 60 5 10",
			wantCourse: models.UnknownCourse,
			wantCode:   models.UnknownCode,
			wantTest:   models.UnknownTest,
		},
		{
			name:       "label not at line start ignored",
			text:       "of Course : nothing\nmid Test Name : nope",
			wantCourse: models.UnknownCourse,
			wantCode:   models.UnknownCode,
			wantTest:   models.UnknownTest,
		},
		{
			name:       "blank values fall back to sentinels",
			text:       "Course :   \nTest Name :",
			wantCourse: models.UnknownCourse,
			wantCode:   models.UnknownCode,
			wantTest:   models.UnknownTest,
		},
		{
			name:       "dashless course uses first token",
			text:       "Course : 21CSC205P Database Systems",
			wantCourse: "21CSC205P Database Systems",
			wantCode:   "21CSC205P",
			wantTest:   models.UnknownTest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := ParseMetadata(tt.text)
			if meta.Course != tt.wantCourse {
				t.Errorf("Course = %q, want %q", meta.Course, tt.wantCourse)
			}
			if meta.SubjectCode != tt.wantCode {
				t.Errorf("SubjectCode = %q, want %q", meta.SubjectCode, tt.wantCode)
			}
			if meta.TestName != tt.wantTest {
				t.Errorf("TestName = %q, want %q", meta.TestName, tt.wantTest)
			}
		})
	}
}

package extract

import "testing"

// wideRow builds a data row in the usual report shape: serial, name, then
// the ten metric cells.
func wideRow(serial, name string) []string {
	return append([]string{serial, name},
		"60", "5", "10", "83.33%", "5", "10", "15", "10", "8", "7")
}

func TestMatchTableRows_TeacherMode(t *testing.T) {
	tables := [][][]string{{
		{"S.No", "Faculty Name", "Total", "Absent"},
		wideRow("1", "Dr.Kumar Anand"),
		wideRow("2", "Ms.Jane Doe"),
	}}

	records := matchTableRows(tables, teacherQuery(NormalizeName("Dr. Kumar Anand")))
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.FacultyName != "Dr.Kumar Anand" {
		t.Errorf("FacultyName = %q, want %q", rec.FacultyName, "Dr.Kumar Anand")
	}
	if got := rec.Strength(); got != 60 {
		t.Errorf("Strength = %v, want 60", got)
	}
	if len(rec.RawRow) != 12 {
		t.Errorf("RawRow holds %d cells, want the full 12-cell source row", len(rec.RawRow))
	}
}

func TestMatchTableRows_HeaderRowNeverMatches(t *testing.T) {
	// A header row that happens to contain enough numbers must still be
	// skipped on its token alone.
	tables := [][][]string{{
		{"Faculty Name Dr.Kumar", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
	}}
	if records := matchTableRows(tables, teacherQuery("drkumar")); len(records) != 0 {
		t.Fatalf("header row produced %d records, want 0", len(records))
	}
}

func TestMatchTableRows_MergedCellConsumesRow(t *testing.T) {
	merged := "1 Dr.Kumar Anand 60 5 10 83.33 5 10 15 10 8 7\n" +
		"2 Dr.Kumar Anand 40 0 5 87.50 2 4 9 10 6 4"
	tables := [][][]string{{
		{merged, "trailing cell 1 2 3 4 5 6 7 8 9 10"},
	}}

	records := matchTableRows(tables, teacherQuery("drkumaranand"))
	if len(records) != 2 {
		t.Fatalf("got %d records, want one per merged line", len(records))
	}
	if records[0].Strength() != 60 || records[1].Strength() != 40 {
		t.Errorf("strengths = (%v, %v), want (60, 40)",
			records[0].Strength(), records[1].Strength())
	}
	for _, rec := range records {
		if rec.FacultyName != "Dr.Kumar Anand" {
			t.Errorf("FacultyName = %q, want %q", rec.FacultyName, "Dr.Kumar Anand")
		}
	}
}

func TestMatchTableRows_MergedCellWithoutDataFallsThrough(t *testing.T) {
	// The broken cell contains the target but no line carries a full
	// vector; the standard row path must still get its chance.
	row := append([]string{"1", "Dr.Kumar\nAnand"},
		"60", "5", "10", "83.33", "5", "10", "15", "10", "8", "7")
	records := matchTableRows([][][]string{{row}}, teacherQuery("drkumar"))
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 from the standard row path", len(records))
	}
	if records[0].Strength() != 60 {
		t.Errorf("Strength = %v, want 60", records[0].Strength())
	}
}

func TestMatchTableRows_OverallMode(t *testing.T) {
	tables := [][][]string{{
		{"S.No", "Faculty Name", "Total Strength"},
		wideRow("1", "Dr.Kumar Anand"),
		wideRow("2", "Ms.Jane Doe"),
		{"just text, not enough numbers", "1", "2"},
	}}

	records := matchTableRows(tables, overallQuery())
	if len(records) != 2 {
		t.Fatalf("got %d records, want every data row", len(records))
	}
	for _, rec := range records {
		if rec.FacultyName != "" {
			t.Errorf("FacultyName = %q, want empty in overall mode", rec.FacultyName)
		}
	}
}

func TestMatchTextLines_TeacherMode(t *testing.T) {
	text := "Course : 21CSC205P - DBMS\n" +
		"107 Dr.Kumar Anand 60 5 10 83.33 5 10 15 10 8 7\n" +
		"108 Ms.Jane Doe 40 0 5 87.50 2 4 9 10 6 4\n" +
		"Total 100 5 15 84.21 7 14 24 20 14 11\n"

	records := matchTextLines(text, teacherQuery("drkumaranand"))
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].FacultyName != "Dr.Kumar Anand" {
		t.Errorf("FacultyName = %q, want %q", records[0].FacultyName, "Dr.Kumar Anand")
	}
	if records[0].Strength() != 60 {
		t.Errorf("Strength = %v, want 60", records[0].Strength())
	}
}

func TestMatchTextLines_OverallSkipsTotalsAndRanges(t *testing.T) {
	text := "Range 0-49 50-59 60-69 70-79 80-89 90-100 1 2 3 4\n" +
		"107 Dr.Kumar Anand 60 5 10 83.33 5 10 15 10 8 7\n" +
		"Total 100 5 15 84.21 7 14 24 20 14 11\n" +
		"108 Ms.Jane Doe 40 0 5 87.50 2 4 9 10 6 4\n"

	records := matchTextLines(text, overallQuery())
	if len(records) != 2 {
		t.Fatalf("got %d records, want the two data lines only", len(records))
	}
	if records[0].Strength() != 60 || records[1].Strength() != 40 {
		t.Errorf("strengths = (%v, %v), want (60, 40)",
			records[0].Strength(), records[1].Strength())
	}
}

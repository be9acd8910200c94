package extract

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"honorific with dots", "Dr. A. Kumar", "drakumar"},
		{"already compact", "drakumar", "drakumar"},
		{"uppercase spaced", "DR A KUMAR", "drakumar"},
		{"double spaces", "Ms  Jane  Doe", "msjanedoe"},
		{"empty", "", ""},
		{"dots and spaces only", " . . ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_Containment(t *testing.T) {
	// The full row text must contain the normalized query however the
	// name was spaced or punctuated on the page.
	row := NormalizeName("107 Dr.Kumar Anand 60 5 10 83.33")
	for _, q := range []string{"Dr. Kumar Anand", "dr.kumar anand", "KUMAR ANAND", "kumar"} {
		if norm := NormalizeName(q); norm == "" || !strings.Contains(row, norm) {
			t.Errorf("normalized row %q does not contain NormalizeName(%q) = %q", row, q, norm)
		}
	}
}

func TestCleanFacultyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"serial and metric block", "107 Dr.Kumar Anand 60 5 10 83.33 5 10 15 10 8 7", "Dr.Kumar Anand"},
		{"digits inside name survive", "107 Dr.Kumar(123) 43 91.20", "Dr.Kumar(123)"},
		{"no serial", "Dr.Kumar 60 5 10 83.33", "Dr.Kumar"},
		{"no trailing numbers", "12 Dr.Kumar", "Dr.Kumar"},
		{"nothing to strip", "Dr.Kumar", "Dr.Kumar"},
		{"interior number kept", "Lab 2 Incharge 45 90.00", "Lab 2 Incharge"},
		{"surrounding whitespace", "  Dr. X  ", "Dr. X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFacultyName(tt.in); got != tt.want {
				t.Errorf("CleanFacultyName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

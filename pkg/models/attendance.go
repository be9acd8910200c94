package models

// SubjectAttendance is one low-attendance entry for a student. An entry only
// exists when the percentage is strictly below the configured threshold.
type SubjectAttendance struct {
	SubjectCode string  // e.g. "21CSC205P(A)"
	Percentage  float64 // attendance percentage, always < threshold
}

// StudentAttendanceRecord collects the qualifying subjects for one
// registration number. At most one SubjectAttendance exists per
// (registration number, subject code) pair per document.
type StudentAttendanceRecord struct {
	RegNumber string // registration number, e.g. "RA2211003010123"
	Name      string // student name as recognized, "Unknown" when unclear
	Subjects  []SubjectAttendance
}

// UnknownStudent is the name sentinel used when the heuristic cannot
// recover a student name from recognized text.
const UnknownStudent = "Unknown"

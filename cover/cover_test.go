package cover

import (
	"testing"
	"time"
)

const sampleCover = `UNIVERSITY OF EXAMPLE
FACULTY OF SCIENCE
FINAL EXAMINATION

COURSE CODE: CHEM301
COURSE NAME: Physical Chemistry II
PROFESSOR: J. Okafor
DATE: 15/12/2019
TOTAL MARKS: 100

Answer all questions in the booklet provided.`

// ---------------------------------------------------------------------------
// Full cover page
// ---------------------------------------------------------------------------

func TestParseFullCover(t *testing.T) {
	m := Parse(sampleCover)

	if m.CourseCode != "CHEM301" {
		t.Errorf("CourseCode = %q, want CHEM301", m.CourseCode)
	}
	if m.CourseName != "Physical Chemistry II" {
		t.Errorf("CourseName = %q, want Physical Chemistry II", m.CourseName)
	}
	if m.Faculty != "SCIENCE" {
		t.Errorf("Faculty = %q, want SCIENCE", m.Faculty)
	}
	if m.Instructor != "J. Okafor" {
		t.Errorf("Instructor = %q, want J. Okafor", m.Instructor)
	}
	if m.TotalMarks == nil || *m.TotalMarks != 100 {
		t.Errorf("TotalMarks = %v, want 100", m.TotalMarks)
	}
	if m.RawDate != "15/12/2019" {
		t.Errorf("RawDate = %q, want 15/12/2019", m.RawDate)
	}
	if m.Date == nil {
		t.Fatal("Date = nil")
	}
	if m.Date.Year() != 2019 || m.Date.Month() != time.December || m.Date.Day() != 15 {
		t.Errorf("Date = %v, want 2019-12-15", m.Date)
	}
}

func TestParseEmptyPage(t *testing.T) {
	m := Parse("   \n ")
	if m.CourseCode != "" || m.TotalMarks != nil || m.Date != nil {
		t.Errorf("expected zero metadata, got %+v", m)
	}
}

// ---------------------------------------------------------------------------
// Course code
// ---------------------------------------------------------------------------

func TestCourseCodeForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labelled", "Course: ECON 310\nMidterm Examination", "ECON310"},
		{"labelled-number", "COURSE NUMBER: CS1010", "CS1010"},
		{"standalone", "MATH221 Final Exam, answer everything.", "MATH221"},
		{"none", "General knowledge quiz for new students.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.text).CourseCode; got != tt.want {
				t.Errorf("CourseCode = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Total marks
// ---------------------------------------------------------------------------

func TestTotalMarksForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"labelled", "TOTAL MARKS: 80", 80},
		{"colon-suffix", "Total: 60 marks", 60},
		{"suffix", "This paper carries 90 marks total.", 90},
		{"points", "120 points total across four sections", 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text).TotalMarks
			if got == nil || *got != tt.want {
				t.Errorf("TotalMarks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalMarksAbsent(t *testing.T) {
	if got := Parse("Answer all questions carefully.").TotalMarks; got != nil {
		t.Errorf("TotalMarks = %v, want nil", *got)
	}
}

// ---------------------------------------------------------------------------
// Dates
// ---------------------------------------------------------------------------

func TestDateForms(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantYear  int
		wantMonth time.Month
	}{
		{"slash", "DATE: 3/6/2021", 2021, time.June},
		{"day-month-name", "Held on 12 March 2020 in the main hall.", 2020, time.March},
		{"month-day", "Examination held March 12, 2020.", 2020, time.March},
		{"season-fall", "Fall 2019 Final Examination", 2019, time.December},
		{"season-spring", "Spring 2022 Midterm", 2022, time.April},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(tt.text)
			if m.Date == nil {
				t.Fatalf("Date = nil (RawDate %q)", m.RawDate)
			}
			if m.Date.Year() != tt.wantYear || m.Date.Month() != tt.wantMonth {
				t.Errorf("Date = %v, want %d-%v", m.Date, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestUnparseableDateKeepsRaw(t *testing.T) {
	m := Parse("DATE: 99/99/9999")
	if m.RawDate != "99/99/9999" {
		t.Errorf("RawDate = %q, want the raw match", m.RawDate)
	}
	if m.Date != nil {
		t.Errorf("Date = %v, want nil for unparseable date", m.Date)
	}
}

// Package cover extracts structured metadata from an exam's first page:
// course code, course name, faculty, instructor, declared total marks,
// and the exam date. Everything is optional — a field that cannot be
// read with confidence stays empty rather than guessed.
package cover

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Metadata holds whatever could be read off the cover page.
type Metadata struct {
	CourseCode string     `json:"course_code,omitempty"`
	CourseName string     `json:"course_name,omitempty"`
	Faculty    string     `json:"faculty,omitempty"`
	Instructor string     `json:"instructor,omitempty"`
	TotalMarks *float64   `json:"total_marks,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	RawDate    string     `json:"raw_date,omitempty"`
}

var courseCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)COURSE\s*(?:CODE|NUMBER|NUM)?\s*:?\s*([A-Z]{2,}\s?\d{3,4})`),
	regexp.MustCompile(`\b([A-Z]{2,}\s?\d{3,4})\b`), // standalone like "ECON 310"
}

// courseCodeShape validates a candidate after whitespace removal.
var courseCodeShape = regexp.MustCompile(`^[A-Z]{2,}\d{3,4}$`)

var courseNamePattern = regexp.MustCompile(
	`(?im)^COURSE\s*(?:NAME)?\s*:\s*(.+?)\s*$`)

var facultyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^(?:FACULTY|DEPARTMENT|SCHOOL)\s+OF\s+(.+?)\s*$`),
	regexp.MustCompile(`(?i)\b(?:Faculty|Department|School) of ([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)`),
}

var instructorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^(?:PROFESSOR|INSTRUCTOR)\s*:?\s*(.+?)\s*$`),
	regexp.MustCompile(`(?m)\b(?:Prof\.|Dr\.)\s*([A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+)*)`),
}

var totalMarksPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TOTAL\s+MARKS?\s*:?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)Total\s*:\s*(\d+(?:\.\d+)?)\s*marks?`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+marks?\s+total`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+points?\s+total`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:EXAMINATION\s+)?DATE\s*:?\s*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`),
	regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})\b`),
	regexp.MustCompile(`(?i)\b((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})\b`),
	regexp.MustCompile(`(?i)\b((?:Fall|Spring|Summer|Winter)\s+\d{4})\b`),
}

// Parse reads cover metadata from first-page text. Fields that cannot
// be extracted are left zero.
func Parse(firstPage string) Metadata {
	var m Metadata
	if strings.TrimSpace(firstPage) == "" {
		return m
	}

	m.CourseCode = extractCourseCode(firstPage)
	m.CourseName = firstMatch(courseNamePattern, firstPage)
	m.Faculty = firstMatchAny(facultyPatterns, firstPage)
	m.Instructor = firstMatchAny(instructorPatterns, firstPage)
	m.TotalMarks = extractTotalMarks(firstPage)
	m.RawDate, m.Date = extractDate(firstPage)
	return m
}

func extractCourseCode(text string) string {
	for _, re := range courseCodePatterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			code := strings.ToUpper(strings.ReplaceAll(match[1], " ", ""))
			if courseCodeShape.MatchString(code) {
				return code
			}
		}
	}
	return ""
}

func extractTotalMarks(text string) *float64 {
	for _, re := range totalMarksPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 {
			continue
		}
		return &v
	}
	return nil
}

// dateLayouts are tried in order against a matched date string.
var dateLayouts = []string{
	"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006",
	"2/1/06", "2-1-06",
	"2 January 2006",
	"January 2, 2006", "January 2 2006",
}

// seasonMonths maps exam seasons to a representative month.
var seasonMonths = map[string]time.Month{
	"winter": time.January,
	"spring": time.April,
	"summer": time.July,
	"fall":   time.December,
}

func extractDate(text string) (string, *time.Time) {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		if t := parseDate(raw); t != nil {
			return raw, t
		}
		return raw, nil
	}
	return "", nil
}

func parseDate(raw string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	// Season form: "Fall 2019" → first of the representative month.
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 2 {
		if month, ok := seasonMonths[fields[0]]; ok {
			if year, err := strconv.Atoi(fields[1]); err == nil && year >= 1900 && year <= 2100 {
				t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
				return &t
			}
		}
	}
	return nil
}

func firstMatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func firstMatchAny(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if v := firstMatch(re, text); v != "" {
			return v
		}
	}
	return ""
}

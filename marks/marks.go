// Package marks extracts per-question point values from question text
// and turns them into normalized difficulty scores.
package marks

import (
	"regexp"
	"strconv"
)

// Extractor pulls a point value out of question text using an ordered
// list of surface patterns. The first pattern that matches wins; no
// attempt is made to reconcile conflicting matches in one question.
type Extractor struct {
	patterns []*regexp.Regexp
}

// Anchored patterns require a pts/points/marks keyword. The bare "(10)"
// form is appended only in non-strict mode — it is common in real papers
// but occasionally grabs a year or a list count.
var anchoredPatterns = []*regexp.Regexp{
	// (10pts), (10 pts), (10 points), (10 marks)
	regexp.MustCompile(`(?i)\((\d+(?:\.\d+)?)\s*(?:pts?|points?|marks?)\)`),
	// [10 MARKS], [10 pts]
	regexp.MustCompile(`(?i)\[(\d+(?:\.\d+)?)\s*(?:pts?|points?|marks?)\]`),
	// 10pts., 10 points)
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:pts?|points?|marks?)\s*[.)]`),
	// worth 10 points
	regexp.MustCompile(`(?i)worth\s+(\d+(?:\.\d+)?)\s*(?:pts?|points?|marks?)`),
	// 10 points each
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:pts?|points?|marks?)\s*each`),
	// 10pts, 10 marks (standalone)
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:pts?|points?|marks?)(?:\s|$)`),
}

// bareParenthetical is the low-confidence "(10)" form.
var bareParenthetical = regexp.MustCompile(`\((\d+(?:\.\d+)?)\)`)

// NewExtractor builds an extractor. strict drops the bare "(10)" form
// so only keyword-anchored patterns are tried.
func NewExtractor(strict bool) *Extractor {
	patterns := make([]*regexp.Regexp, len(anchoredPatterns), len(anchoredPatterns)+1)
	copy(patterns, anchoredPatterns)
	if !strict {
		patterns = append(patterns, bareParenthetical)
	}
	return &Extractor{patterns: patterns}
}

// Extract returns the first point value found in text, or nil when no
// pattern matched (the question simply has no marks — not an error).
func (e *Extractor) Extract(text string) *float64 {
	if text == "" {
		return nil
	}
	for _, re := range e.patterns {
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

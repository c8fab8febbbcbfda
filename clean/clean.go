// Package clean normalizes parsed question records, strips noise lines,
// drops invalid and near-duplicate records, and reports what it removed.
// The noise-pattern set is an explicit immutable parameter so the same
// cleaner behavior can be reproduced in tests per pattern set.
package clean

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/brunobiangulo/exambank/store"
)

// Config controls cleaning behavior. Zero-value fields take defaults.
type Config struct {
	// NoisePatterns are regular expressions applied per line; a line
	// whose trimmed text matches any of them is dropped. Defaults to
	// DefaultNoisePatterns().
	NoisePatterns []string `json:"noise_patterns" yaml:"noise_patterns"`

	// MinQuestionLength is the minimum character length for a valid
	// cleaned question. Default 20.
	MinQuestionLength int `json:"min_question_length" yaml:"min_question_length"`

	// MinLetterRatio is the minimum fraction of letter characters;
	// below it a record counts as punctuation/marker junk. Default 0.15.
	MinLetterRatio float64 `json:"min_letter_ratio" yaml:"min_letter_ratio"`

	// SimilarityThreshold is the token-overlap ratio at or above which
	// the later of two records is dropped as a near-duplicate.
	// Default 0.85.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
}

// Cleaner applies the cleaning pipeline to one exam's records.
// Safe for concurrent use: all state is read-only after New.
type Cleaner struct {
	cfg     Config
	noise   []*regexp.Regexp
	invalid []*regexp.Regexp
}

// Patterns for records that are clearly not questions even when long
// enough (answer-key pages, instruction lines that leaked through
// segmentation). Applied to the full cleaned text, anchored at start.
var invalidRecordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^page \d+$`),
	regexp.MustCompile(`(?i)^answer key`),
	regexp.MustCompile(`(?i)^table of contents`),
	regexp.MustCompile(`(?i)^instructions:`),
	regexp.MustCompile(`(?i)^exam duration:`),
	regexp.MustCompile(`(?i)^total marks:`),
}

// New builds a Cleaner, compiling the configured noise patterns.
func New(cfg Config) (*Cleaner, error) {
	if cfg.NoisePatterns == nil {
		cfg.NoisePatterns = DefaultNoisePatterns()
	}
	if cfg.MinQuestionLength == 0 {
		cfg.MinQuestionLength = 20
	}
	if cfg.MinLetterRatio == 0 {
		cfg.MinLetterRatio = 0.15
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = 0.85
	}

	noise := make([]*regexp.Regexp, 0, len(cfg.NoisePatterns))
	for _, p := range cfg.NoisePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling noise pattern %q: %w", p, err)
		}
		noise = append(noise, re)
	}
	return &Cleaner{cfg: cfg, noise: noise, invalid: invalidRecordPatterns}, nil
}

// Clean runs the full pipeline over one exam's records: normalize,
// validate, dedup. Input records are never mutated; the returned slice
// holds cleaned copies of the survivors in their original order.
func (c *Cleaner) Clean(records []store.QuestionRecord) ([]store.QuestionRecord, store.CleaningReport) {
	report := store.CleaningReport{TotalProcessed: len(records)}

	// Normalize and validate.
	valid := make([]store.QuestionRecord, 0, len(records))
	for _, q := range records {
		q.Text = c.CleanText(q.Text)
		q.ContentHash = store.ContentHash(q.Text)

		switch c.validate(q.Text) {
		case removeTooShort:
			report.RemovedTooShort++
		case removeInvalid:
			report.RemovedInvalid++
		default:
			valid = append(valid, q)
		}
	}

	// Drop exact and near duplicates, keeping first occurrences.
	unique, removed := c.dedup(valid)
	report.RemovedDuplicate = removed
	report.FinalCount = len(unique)
	return unique, report
}

// CleanText strips noise lines and normalizes whitespace and encoding
// artifacts. Applying it to its own output is a no-op.
func (c *Cleaner) CleanText(text string) string {
	if text == "" {
		return ""
	}

	// Line pass: drop page numbers, headers, and the other configured
	// noise before line structure is collapsed.
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || c.isNoiseLine(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	text = strings.Join(kept, "\n")

	return normalize(text)
}

// isNoiseLine reports whether a trimmed line matches a noise pattern.
func (c *Cleaner) isNoiseLine(line string) bool {
	for _, re := range c.noise {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

type removal int

const (
	keep removal = iota
	removeTooShort
	removeInvalid
)

// validate decides whether a cleaned record survives.
func (c *Cleaner) validate(text string) removal {
	if len(text) < c.cfg.MinQuestionLength {
		return removeTooShort
	}
	if letterRatio(text) < c.cfg.MinLetterRatio {
		return removeInvalid
	}
	for _, re := range c.invalid {
		if re.MatchString(text) {
			return removeInvalid
		}
	}
	return keep
}

// letterRatio is the fraction of characters that are letters.
func letterRatio(text string) float64 {
	if text == "" {
		return 0
	}
	letters := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(total)
}

// OCR artifacts that survive extraction: BOM, zero-width characters,
// and bidi control marks.
var artifactReplacer = strings.NewReplacer(
	"\ufeff", "", // BOM
	"​", "", // zero-width space
	"‌", "", // zero-width non-joiner
	"‍", "", // zero-width joiner
	"‪", "", "‫", "", "‬", "", "‭", "", "‮", "", // bidi controls
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"—", "-", "–", "-",
)

var (
	hyphenBreak = regexp.MustCompile(`-\s*\n`)
	multiSpace  = regexp.MustCompile(`\s+`)
)

// normalize fixes encoding artifacts and collapses whitespace.
func normalize(text string) string {
	text = artifactReplacer.Replace(text)

	// Re-join words the OCR layer hyphenated across line breaks.
	text = hyphenBreak.ReplaceAllString(text, "")

	// Drop non-printable control characters.
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)

	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

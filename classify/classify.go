// Package classify assigns a semantic type to each question using an
// ordered rule ladder. Rules are plain (predicate, tag) pairs evaluated
// top to bottom with first-match-wins semantics, so each rule can be
// tested on its own and callers can swap in their own ladder.
package classify

import (
	"regexp"
	"strings"
)

// Type is a question type tag.
type Type string

const (
	MultipleChoice Type = "multiple_choice"
	TrueFalse      Type = "true_false"
	Numerical      Type = "numerical"
	Essay          Type = "essay"
	ShortAnswer    Type = "short_answer"
	SubQuestion    Type = "sub_question"
	Other          Type = "other"
)

// Rule pairs a predicate with the tag it produces.
type Rule struct {
	Tag   Type
	Match func(text string) bool
}

// Detect runs text through the rules in order and returns the first
// matching tag. It never fails; unmatched text falls through to Other.
func Detect(text string, rules []Rule) Type {
	text = strings.TrimSpace(text)
	if text == "" {
		return Other
	}
	for _, r := range rules {
		if r.Match(text) {
			return r.Tag
		}
	}
	return Other
}

// DefaultRules returns the standard ladder. Sub-questions never reach
// the ladder at all — the pipeline tags them structurally.
func DefaultRules() []Rule {
	return []Rule{
		{MultipleChoice, isMultipleChoice},
		{TrueFalse, isTrueFalse},
		{Numerical, isNumerical},
		{Essay, isEssay},
		{ShortAnswer, isShortAnswer},
	}
}

// ---------------------------------------------------------------------------
// Multiple choice
// ---------------------------------------------------------------------------

// Option marker styles. Each extracts the option letter so we can check
// the letters actually form an increasing sequence instead of counting
// stray parentheses.
var optionMarkerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-E])\)\s*`),
	regexp.MustCompile(`\(([a-e])\)\s*`),
	regexp.MustCompile(`\b([a-e])\.\s+[A-Za-z]`),
}

var mcPhrases = []string{
	"choose the best",
	"select the",
	"circle the",
	"mark the",
	"which of the following",
	"all of the above",
	"none of the above",
}

// isMultipleChoice reports at least two option markers in increasing
// letter order, or an explicit multiple-choice phrase alongside at least
// one marker.
func isMultipleChoice(text string) bool {
	best := 0
	for _, re := range optionMarkerPatterns {
		n := ascendingOptionCount(re, text)
		if n > best {
			best = n
		}
	}
	if best >= 2 {
		return true
	}

	lower := strings.ToLower(text)
	for _, phrase := range mcPhrases {
		if strings.Contains(lower, phrase) {
			return best >= 1
		}
	}
	return false
}

// ascendingOptionCount counts distinct option letters matched by re that
// appear in increasing order ("a" then "b" then "c" ...).
func ascendingOptionCount(re *regexp.Regexp, text string) int {
	count := 0
	var prev byte
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		letter := strings.ToLower(m[1])[0]
		if letter > prev {
			count++
			prev = letter
		}
	}
	return count
}

// ---------------------------------------------------------------------------
// True / false
// ---------------------------------------------------------------------------

var tfPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btrue\s+or\s+false\b`),
	regexp.MustCompile(`(?i)\btrue\s*/\s*false\b`),
	regexp.MustCompile(`(?i)\bT\s*/\s*F\b`),
	regexp.MustCompile(`(?i)circle\s+(?:true|false)`),
}

// tfOptionPair matches an explicit capitalized True ... False option
// pair. Case matters here: lowercase prose uses of "true" are common in
// ordinary question text.
var tfOptionPair = regexp.MustCompile(`\bTrue\b[\s\S]{0,40}\bFalse\b`)

func isTrueFalse(text string) bool {
	for _, re := range tfPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return tfOptionPair.MatchString(text)
}

// ---------------------------------------------------------------------------
// Numerical
// ---------------------------------------------------------------------------

var numericalCues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcalculate\b`),
	regexp.MustCompile(`(?i)\bcompute\b`),
	regexp.MustCompile(`(?i)\bsolve\s+for\b`),
	regexp.MustCompile(`(?i)\bfind\s+(?:the\s+)?(?:value|result|answer|solution)\b`),
	regexp.MustCompile(`(?i)\bdetermine\s+(?:the\s+)?(?:value|number|amount)\b`),
}

var mathExpression = regexp.MustCompile(`\d+\s*[+\-*/=]\s*\d+`)

// isNumerical fires when the text is dominated by digits and operators,
// or carries a calculation cue without competing essay cues.
func isNumerical(text string) bool {
	if digitOperatorRatio(text) > 0.3 {
		return true
	}
	if mathExpression.MatchString(text) {
		return true
	}
	cued := false
	for _, re := range numericalCues {
		if re.MatchString(text) {
			cued = true
			break
		}
	}
	return cued && !hasEssayCue(text)
}

// digitOperatorRatio is the fraction of non-space characters that are
// digits or arithmetic operators.
func digitOperatorRatio(text string) float64 {
	total, numeric := 0, 0
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			continue
		}
		total++
		switch {
		case r >= '0' && r <= '9':
			numeric++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '=' || r == '%' || r == '.':
			numeric++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(numeric) / float64(total)
}

// ---------------------------------------------------------------------------
// Essay / short answer
// ---------------------------------------------------------------------------

// essayLengthThreshold is the minimum character length before analytic
// verbs tip a question into essay; anything shorter stays short_answer.
const essayLengthThreshold = 150

var essayCues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bexplain\b`),
	regexp.MustCompile(`(?i)\bdescribe\b`),
	regexp.MustCompile(`(?i)\bdiscuss\b`),
	regexp.MustCompile(`(?i)\banaly[sz]e\b`),
	regexp.MustCompile(`(?i)\bcompare\b`),
	regexp.MustCompile(`(?i)\bcontrast\b`),
	regexp.MustCompile(`(?i)\bevaluate\b`),
	regexp.MustCompile(`(?i)\bcritique\b`),
	regexp.MustCompile(`(?i)\bargue\b`),
	regexp.MustCompile(`(?i)\bjustify\b`),
}

func hasEssayCue(text string) bool {
	for _, re := range essayCues {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isEssay(text string) bool {
	return len(text) > essayLengthThreshold && hasEssayCue(text)
}

// shortAnswerMinLength is the floor below which text is considered too
// short or garbled to classify at all.
const shortAnswerMinLength = 15

// isShortAnswer is the default for moderate-length text that matched
// nothing above. Very short fragments fall through to Other.
func isShortAnswer(text string) bool {
	return len(text) >= shortAnswerMinLength
}

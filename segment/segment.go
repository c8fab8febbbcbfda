// Package segment recovers an ordered list of question spans from raw,
// noisy exam text. Splitting happens on line-start markers only; noise
// lines inside a span are kept and left for the cleaner.
package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// Span is one raw question span: the marker line plus every following
// line up to the next marker. Spans are immutable after segmentation;
// the sub-question linker returns annotated copies.
type Span struct {
	// Number is the final question number: the parsed marker number when
	// it keeps the sequence strictly increasing, otherwise the previous
	// number plus one.
	Number int

	// Marker is the literal marker text, e.g. "7.", "Question 3", "ii)".
	Marker string

	// NumericMarker reports whether the marker was a plain question
	// number (digits, "Question N", "QN"). Only numeric-marker spans can
	// act as parents for sub-questions.
	NumericMarker bool

	// Text is the full span text including the marker line.
	Text string

	// Line is the zero-based line index where the span starts.
	Line int

	// Synthetic marks the whole-text fallback span emitted when no
	// marker was found anywhere.
	Synthetic bool

	// Set by LinkSubQuestions, zero after segmentation.
	IsSub        bool
	ParentNumber int
}

// Main question markers, anchored at line start.
var mainMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)\.\s+`),
	regexp.MustCompile(`^(\d+)\)\s+`),
	regexp.MustCompile(`^Question\s+(\d+)\b[.:)]?\s*`),
	regexp.MustCompile(`^Q(\d+)[.)]\s*`),
}

// Sub-question shaped markers: lowercase letters and lowercase roman
// numerals. Case-sensitive on purpose — uppercase "A)" lines are usually
// multiple-choice options and must stay inside their question's span.
var subMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^\(([a-z])\)\s*`),
	regexp.MustCompile(`^\(([ivx]+)\)\s*`),
	regexp.MustCompile(`^([ivx]+)[.)]\s+`),
	regexp.MustCompile(`^([a-z])[.)]\s+`),
}

// Uppercase roman markers, used as a fallback when no numeric marker
// exists in the whole document (some older papers number I. II. III.).
var romanMainMarker = regexp.MustCompile(`^([IVXLC]+)\.\s+`)

// midlineMarker finds a second question marker on the same physical
// line, e.g. "1. True 2. False". The match is only honored when the
// number continues the current sequence, which keeps in-text numbers
// ("see part 3) above") from splitting a span.
var midlineMarker = regexp.MustCompile(`\s(\d+)[.)]\s+`)

// marker is an internal match result.
type marker struct {
	text    string // literal marker
	number  int    // parsed number, 0 for sub-shaped markers
	numeric bool
	width   int // byte length of the marker prefix
}

// matchMain tests a line against the numeric main-question patterns.
func matchMain(line string) (marker, bool) {
	for _, re := range mainMarkers {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return marker{text: strings.TrimSpace(m[0]), number: n, numeric: true, width: len(m[0])}, true
	}
	return marker{}, false
}

// matchSub tests a line against the sub-question shaped patterns.
func matchSub(line string) (marker, bool) {
	for _, re := range subMarkers {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return marker{text: strings.TrimSpace(m[0]), width: len(m[0])}, true
	}
	return marker{}, false
}

// matchAny returns the first marker match, main patterns first so that
// "1." is never read as a roman "i.".
func matchAny(line string) (marker, bool) {
	if m, ok := matchMain(line); ok {
		return m, true
	}
	if m, ok := matchSub(line); ok {
		return m, true
	}
	return marker{}, false
}

// segState is the two-state line scanner state.
type segState int

const (
	beforeFirstQuestion segState = iota
	inQuestionBody
)

// Split segments raw exam text into ordered question spans.
//
// The scanner holds two states: before the first marker, lines are
// discarded (cover boilerplate); after it, lines accumulate into the
// current span until the next marker. When no marker is found at all the
// entire text becomes a single synthetic span numbered 1 — callers flag
// it for review rather than failing the exam.
func Split(text string) []Span {
	lines := strings.Split(text, "\n")

	spans := buildSpans(lines, matchAny)
	if len(spans) > 0 {
		return renumber(spans)
	}

	// Roman-numbered papers: only try I. II. III. when nothing matched
	// the ordinary patterns, and require at least two markers so a lone
	// "I." abbreviation cannot hijack the document.
	romanSpans := buildSpans(lines, matchRomanMain)
	if len(romanSpans) >= 2 {
		return renumber(romanSpans)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return []Span{{
		Number:    1,
		Text:      trimmed,
		Synthetic: true,
	}}
}

// matchRomanMain matches uppercase roman main markers (fallback pass).
func matchRomanMain(line string) (marker, bool) {
	m := romanMainMarker.FindStringSubmatch(line)
	if m == nil {
		return marker{}, false
	}
	n := romanToInt(m[1])
	if n <= 0 {
		return marker{}, false
	}
	return marker{text: strings.TrimSpace(m[0]), number: n, numeric: true, width: len(m[0])}, true
}

// buildSpans runs the two-state scan with the given marker matcher.
func buildSpans(lines []string, match func(string) (marker, bool)) []Span {
	var spans []Span
	var cur *Span
	var body strings.Builder
	lastNumber := 0

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(body.String())
		spans = append(spans, *cur)
		body.Reset()
		cur = nil
	}

	state := beforeFirstQuestion
	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		m, ok := match(line)
		if !ok {
			if state == inQuestionBody {
				body.WriteString(raw)
				body.WriteString("\n")
			}
			continue
		}

		flush()
		state = inQuestionBody
		if m.numeric {
			lastNumber = m.number
		}
		cur = &Span{
			Number:        m.number,
			Marker:        m.text,
			NumericMarker: m.numeric,
			Line:          i,
		}

		// Two markers on one physical line: split before the second
		// marker's offset when it continues the sequence.
		rest := line
		for {
			head, tail, next, found := splitAtNextMarker(rest, lastNumber)
			if !found {
				body.WriteString(rest)
				body.WriteString("\n")
				break
			}
			body.WriteString(head)
			body.WriteString("\n")
			flush()
			lastNumber = next.number
			cur = &Span{
				Number:        next.number,
				Marker:        next.text,
				NumericMarker: true,
				Line:          i,
			}
			rest = tail
		}
	}
	flush()
	return spans
}

// splitAtNextMarker looks for a sequence-continuing numbered marker
// inside line. It returns the text before the marker, the text from the
// marker onward, and the marker itself.
func splitAtNextMarker(line string, lastNumber int) (head, tail string, m marker, found bool) {
	for _, loc := range midlineMarker.FindAllStringSubmatchIndex(line, -1) {
		numStr := line[loc[2]:loc[3]]
		n, err := strconv.Atoi(numStr)
		if err != nil || n != lastNumber+1 {
			continue
		}
		markerStart := loc[0] + 1 // skip the leading whitespace byte
		head = strings.TrimSpace(line[:markerStart])
		tail = line[markerStart:]
		m = marker{
			text:    strings.TrimSpace(line[markerStart:loc[1]]),
			number:  n,
			numeric: true,
			width:   loc[1] - markerStart,
		}
		return head, tail, m, true
	}
	return "", "", marker{}, false
}

// renumber enforces the unique, strictly-increasing question number
// invariant. Parsed numbers are kept when they continue the sequence;
// anything else (sub-shaped markers, OCR misreads, restarts) takes the
// previous number plus one.
func renumber(spans []Span) []Span {
	out := make([]Span, len(spans))
	prev := 0
	for i, s := range spans {
		if s.NumericMarker && s.Number > prev {
			prev = s.Number
		} else {
			prev++
		}
		s.Number = prev
		out[i] = s
	}
	return out
}

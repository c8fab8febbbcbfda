package segment

// LinkSubQuestions annotates spans that are lettered or roman-numeral
// parts of a preceding numbered question. It is a second, separate pass
// over immutable segmenter output and returns a new slice.
//
// A span becomes a sub-question only when a numeric-marker span appears
// somewhere before it; a run of consecutive sub spans all link to that
// same nearest numeric span, never to each other. A numeric-marker span
// is never itself eligible, and a sub-shaped span with no qualifying
// parent is left as a normal question.
func LinkSubQuestions(spans []Span) []Span {
	out := make([]Span, len(spans))
	copy(out, spans)

	lastMain := 0 // question number of the nearest preceding numeric span
	for i := range out {
		s := &out[i]
		if s.NumericMarker {
			lastMain = s.Number
			continue
		}
		if s.Synthetic || !hasSubMarker(s.Text) {
			continue
		}
		if lastMain == 0 {
			// No numbered question before this span. Ambiguous, so keep
			// it as a normal question.
			continue
		}
		s.IsSub = true
		s.ParentNumber = lastMain
	}
	return out
}

// hasSubMarker reports whether text starts with a sub-question marker.
func hasSubMarker(text string) bool {
	_, ok := matchSub(text)
	return ok
}

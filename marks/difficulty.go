package marks

// DefaultSanityBound is the maximum plausible total for one exam.
// Anything above it is an extraction error, never a real paper.
const DefaultSanityBound = 300

// Total is the resolved total-marks value for an exam.
type Total struct {
	Value  *float64 // nil when no usable total exists
	Source string   // "cover", "sum", or "" when Value is nil
	// OutOfRange reports that a candidate total exceeded the sanity
	// bound and was discarded. The exam should be flagged for review.
	OutOfRange bool
}

// ResolveTotal computes an exam's total marks. The cover-declared value
// wins when present and within the sanity bound; otherwise the sum of
// the per-question values is used. A candidate above the bound is
// discarded, not clamped — a wrong total silently poisons every
// difficulty score downstream.
func ResolveTotal(coverTotal *float64, questionMarks []*float64, bound float64) Total {
	if bound <= 0 {
		bound = DefaultSanityBound
	}

	var out Total
	if coverTotal != nil && *coverTotal > 0 {
		if *coverTotal <= bound {
			v := *coverTotal
			out.Value = &v
			out.Source = "cover"
			return out
		}
		out.OutOfRange = true
	}

	sum := 0.0
	found := false
	for _, m := range questionMarks {
		if m != nil {
			sum += *m
			found = true
		}
	}
	if !found || sum == 0 {
		return out
	}
	if sum > bound {
		out.OutOfRange = true
		return out
	}
	out.Value = &sum
	out.Source = "sum"
	return out
}

// Difficulty returns marks normalized against the exam total, clamped
// to [0,1]. Nil whenever either side is unknown or the total is not
// positive — the score is never guessed.
func Difficulty(questionMarks *float64, total *float64) *float64 {
	if questionMarks == nil || total == nil || *total <= 0 {
		return nil
	}
	score := *questionMarks / *total
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return &score
}

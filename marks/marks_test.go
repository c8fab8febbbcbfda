package marks

import "testing"

func fptr(v float64) *float64 { return &v }

// ---------------------------------------------------------------------------
// Extraction
// ---------------------------------------------------------------------------

func TestExtractAnchoredForms(t *testing.T) {
	e := NewExtractor(false)
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"paren-pts", "Explain the process. (10pts)", 10},
		{"paren-points-space", "Explain the process. (10 points)", 10},
		{"paren-marks", "Explain the process. (15 marks)", 15},
		{"bracket", "Explain the process. [5 MARKS]", 5},
		{"suffix", "This question carries 12 points.", 12},
		{"worth", "This question is worth 8 marks", 8},
		{"each", "Answer all parts, 3 points each", 3},
		{"standalone", "Short derivation, 6 pts at most", 6},
		{"decimal", "Quick check. (2.5 pts)", 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if got == nil {
				t.Fatal("Extract returned nil")
			}
			if *got != tt.want {
				t.Errorf("Extract = %v, want %v", *got, tt.want)
			}
		})
	}
}

func TestExtractBareParenthetical(t *testing.T) {
	text := "Derive the formula for compound interest. (10)"

	if got := NewExtractor(false).Extract(text); got == nil || *got != 10 {
		t.Errorf("non-strict Extract = %v, want 10", got)
	}
	if got := NewExtractor(true).Extract(text); got != nil {
		t.Errorf("strict Extract = %v, want nil", *got)
	}
}

func TestExtractNoMarks(t *testing.T) {
	e := NewExtractor(false)
	for _, text := range []string{
		"",
		"Describe the experiment in your own words.",
		"What happened in 1914? Give two reasons.",
	} {
		if got := e.Extract(text); got != nil {
			t.Errorf("Extract(%q) = %v, want nil", text, *got)
		}
	}
}

func TestExtractRejectsZero(t *testing.T) {
	if got := NewExtractor(false).Extract("Warm-up question. (0 pts)"); got != nil {
		t.Errorf("Extract = %v, want nil for zero marks", *got)
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	// Anchored forms beat the bare "(10)" form regardless of position.
	text := "Using table (3), compute the total. (10 marks)"
	got := NewExtractor(false).Extract(text)
	if got == nil || *got != 10 {
		t.Errorf("Extract = %v, want 10", got)
	}
}

// ---------------------------------------------------------------------------
// Total resolution
// ---------------------------------------------------------------------------

func TestResolveTotalCoverWins(t *testing.T) {
	total := ResolveTotal(fptr(100), []*float64{fptr(10), fptr(20)}, 0)
	if total.Value == nil || *total.Value != 100 {
		t.Fatalf("Value = %v, want 100", total.Value)
	}
	if total.Source != "cover" {
		t.Errorf("Source = %q, want cover", total.Source)
	}
	if total.OutOfRange {
		t.Error("OutOfRange = true, want false")
	}
}

func TestResolveTotalSumFallback(t *testing.T) {
	total := ResolveTotal(nil, []*float64{fptr(10), nil, fptr(30)}, 0)
	if total.Value == nil || *total.Value != 40 {
		t.Fatalf("Value = %v, want 40", total.Value)
	}
	if total.Source != "sum" {
		t.Errorf("Source = %q, want sum", total.Source)
	}
}

func TestResolveTotalCoverOutOfRangeFallsBackToSum(t *testing.T) {
	// A cover misread like 2043 is discarded but the per-question sum
	// still stands.
	total := ResolveTotal(fptr(2043), []*float64{fptr(40), fptr(60)}, 0)
	if !total.OutOfRange {
		t.Fatal("OutOfRange = false, want true")
	}
	if total.Value == nil || *total.Value != 100 {
		t.Fatalf("Value = %v, want 100", total.Value)
	}
	if total.Source != "sum" {
		t.Errorf("Source = %q, want sum", total.Source)
	}
}

func TestResolveTotalNothingUsable(t *testing.T) {
	total := ResolveTotal(fptr(2043), []*float64{nil, nil}, 0)
	if total.Value != nil {
		t.Errorf("Value = %v, want nil", *total.Value)
	}
	if !total.OutOfRange {
		t.Error("OutOfRange = false, want true")
	}

	total = ResolveTotal(nil, nil, 0)
	if total.Value != nil || total.OutOfRange || total.Source != "" {
		t.Errorf("empty input: got %+v, want zero Total", total)
	}
}

func TestResolveTotalSumOutOfRange(t *testing.T) {
	total := ResolveTotal(nil, []*float64{fptr(200), fptr(250)}, 0)
	if total.Value != nil {
		t.Errorf("Value = %v, want nil", *total.Value)
	}
	if !total.OutOfRange {
		t.Error("OutOfRange = false, want true")
	}
}

func TestResolveTotalNeverExceedsBound(t *testing.T) {
	cases := []struct {
		cover *float64
		sums  []*float64
	}{
		{fptr(2043), nil},
		{fptr(301), []*float64{fptr(500)}},
		{nil, []*float64{fptr(150), fptr(151)}},
		{fptr(299), []*float64{fptr(10)}},
	}
	for _, c := range cases {
		total := ResolveTotal(c.cover, c.sums, 0)
		if total.Value != nil && *total.Value > DefaultSanityBound {
			t.Errorf("ResolveTotal(%v, %v) = %v, exceeds bound", c.cover, c.sums, *total.Value)
		}
	}
}

// ---------------------------------------------------------------------------
// Difficulty
// ---------------------------------------------------------------------------

func TestDifficulty(t *testing.T) {
	if d := Difficulty(fptr(10), fptr(40)); d == nil || *d != 0.25 {
		t.Errorf("Difficulty(10, 40) = %v, want 0.25", d)
	}
	if d := Difficulty(fptr(30), fptr(40)); d == nil || *d != 0.75 {
		t.Errorf("Difficulty(30, 40) = %v, want 0.75", d)
	}
}

func TestDifficultyNilInputs(t *testing.T) {
	if d := Difficulty(nil, fptr(40)); d != nil {
		t.Errorf("nil marks: got %v, want nil", *d)
	}
	if d := Difficulty(fptr(10), nil); d != nil {
		t.Errorf("nil total: got %v, want nil", *d)
	}
	if d := Difficulty(fptr(10), fptr(0)); d != nil {
		t.Errorf("zero total: got %v, want nil", *d)
	}
}

func TestDifficultyClamped(t *testing.T) {
	// A question worth more than the resolved total clamps to 1.
	if d := Difficulty(fptr(50), fptr(40)); d == nil || *d != 1 {
		t.Errorf("Difficulty(50, 40) = %v, want 1", d)
	}
}

package clean

// DefaultNoisePatterns returns the stock noise-line pattern set:
// page furniture, dates, copyright lines, and the boilerplate that
// repeats on every page of a scanned paper. All patterns are anchored
// to the whole line so they cannot eat real question text after
// whitespace normalization merges lines.
func DefaultNoisePatterns() []string {
	return []string{
		`(?i)^page \d+( of \d+)?$`,
		`^\d+$`,                       // bare page number
		`^\d{1,2}/\d{1,2}/\d{2,4}$`,   // date stamp
		`(?i)^© ?\d{4}.*$`,
		`(?i)^confidential$`,
		`(?i)^do not write.*$`,
		`(?i)^turn over$`,
		`(?i)^see next page.*$`,
		`(?i)^continued\.{0,3}$`,
		`(?i)^\(page \d+\)$`,
		`(?i)^.*university.*$`,
		`(?i)^final examination.*$`,
		`(?i)^faculty of .*$`,
		`(?i)^instructions to students.*$`,
		`(?i)^answer all questions.*$`,
		`^\f$`, // page-break marker from ingestion
	}
}

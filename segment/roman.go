package segment

// romanValues covers the numerals that actually appear as question
// markers. Larger numerals are accepted for completeness.
var romanValues = map[rune]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// romanToInt converts an uppercase roman numeral to an integer.
// Returns 0 for strings containing non-roman characters.
func romanToInt(s string) int {
	result := 0
	prev := 0
	for i := len(s) - 1; i >= 0; i-- {
		v, ok := romanValues[rune(s[i])]
		if !ok {
			return 0
		}
		if v < prev {
			result -= v
		} else {
			result += v
			prev = v
		}
	}
	return result
}

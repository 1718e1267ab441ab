package fill

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseNumber extracts the first number from a value like "4" or "4 years".
func parseNumber(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseRange reads an option text like "3-5 years", "6+ years", "10 or more"
// or "under 2" into an inclusive [min,max] interval.
func parseRange(text string) (float64, float64, bool) {
	matches := numberPattern.FindAllString(text, 2)
	if len(matches) == 0 {
		return 0, 0, false
	}

	lower := strings.ToLower(text)

	if len(matches) >= 2 {
		lo, err1 := strconv.ParseFloat(matches[0], 64)
		hi, err2 := strconv.ParseFloat(matches[1], 64)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}

	n, err := strconv.ParseFloat(matches[0], 64)
	if err != nil {
		return 0, 0, false
	}

	switch {
	case strings.Contains(lower, "+") || strings.Contains(lower, "or more") || strings.Contains(lower, "more than") || strings.Contains(lower, "at least"):
		return n, math.Inf(1), true
	case strings.Contains(lower, "less than") || strings.Contains(lower, "under") || strings.Contains(lower, "up to") || strings.Contains(lower, "fewer"):
		return 0, n, true
	default:
		return n, n, true
	}
}

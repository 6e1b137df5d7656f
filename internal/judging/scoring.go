package judging

import (
	"math"
	"strings"
)

// TotalScore is the arithmetic mean of the submitted values, rounded to one
// decimal. The criterion weight field does not participate; it is
// informational (see the weighting note in DESIGN.md). Empty input yields 0.
func TotalScore(values map[string]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return Round1(sum / float64(len(values)))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// NormalizeKey maps a criterion display name (or a submitted field key) to
// the form used for required-field matching and as the Values map key:
// lowercase with everything but letters and digits stripped.
// "Technical Complexity" and "technicalComplexity" both become
// "technicalcomplexity".
func NormalizeKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CompletionPct is scored/total as a nearest-integer percentage.
// Zero assigned projects yields 0, not a division error.
func CompletionPct(scored, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(scored) / float64(total) * 100))
}

package analytics

import "math"

// CalculateRate converts a (part, total) pair into a percentage rounded to
// two decimal places. A zero total yields 0 rather than NaN/Inf, so callers
// can feed it empty periods without guarding.
func CalculateRate(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return round2(part / total * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

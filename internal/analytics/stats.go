package analytics

import (
	"math"
	"sort"
)

// Mean computes the arithmetic mean, skipping NaN entries the way the
// feature pipeline expects. Returns NaN when no usable value remains.
func Mean(xs []float64) float64 {
	sum := 0.0
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// SampleStd computes the sample standard deviation (n-1 denominator),
// skipping NaN entries. A group with fewer than two usable values has an
// undefined deviation and yields NaN, never zero, so consumers can tell
// "zero variance" from "insufficient data".
func SampleStd(xs []float64) float64 {
	usable := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			usable = append(usable, x)
		}
	}
	if len(usable) < 2 {
		return math.NaN()
	}

	m := Mean(usable)
	sum := 0.0
	for _, x := range usable {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(usable)-1))
}

// Max returns the largest non-NaN value, or NaN when none exists.
func Max(xs []float64) float64 {
	best := math.NaN()
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(best) || x > best {
			best = x
		}
	}
	return best
}

// Percentile computes the q-th percentile (q in [0,1]) with linear
// interpolation between closest ranks. Returns NaN for an empty input.
func Percentile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// Mode returns the most frequent value; ties break to the alphabetically
// first candidate. Empty strings are treated as absent, and fallback is
// returned when nothing usable remains.
func Mode(values []string, fallback string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return fallback
	}

	best := ""
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}

package probability

import "slices"

// Mean returns the arithmetic mean, or 0 for no values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// Median returns the middle value, averaging the two middle values for even
// lengths
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Count returns how many values are at least floor
func Count(values []float64, floor float64) int {
	n := 0
	for _, v := range values {
		if v >= floor {
			n++
		}
	}
	return n
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

package mathutil

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Median returns the median of x without modifying it.
// An even count averages the two middle values. Empty input returns 0.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	sorted := slices.Clone(x)
	slices.Sort(sorted)

	mid := n / halfDivisor
	if n%halfDivisor == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / halfDivisor
}

// PopStdDev returns the population standard deviation of x (divisor n).
func PopStdDev(x []float64) float64 {
	n := len(x)
	if n < halfDivisor {
		return 0
	}

	// stat.Variance is the unbiased estimator, rescale to the population form.
	variance := stat.Variance(x, nil) * float64(n-1) / float64(n)
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}

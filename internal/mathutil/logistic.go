// Package mathutil provides small numeric helpers shared by the echo engine.
package mathutil

import (
	"math"
)

// Logistic returns 1 / (1 + e^-x).
func Logistic(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// OpenUnit clamps v into the open interval (0, 1).
// Exact 0 and 1 become the nearest representable interior values and NaN
// maps to 0.5.
func OpenUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return logisticUpper / halfDivisor
	case v <= logisticLower:
		return math.SmallestNonzeroFloat64
	case v >= logisticUpper:
		return math.Nextafter(logisticUpper, logisticLower)
	default:
		return v
	}
}

// Gate returns the logistic gate for x, guaranteed to lie strictly in (0, 1).
func Gate(x float64) float64 {
	return OpenUnit(Logistic(x))
}

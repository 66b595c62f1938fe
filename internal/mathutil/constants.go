package mathutil

// Median constants
const (
	halfDivisor = 2 // Divisor for locating the middle of a sorted slice
)

// Logistic saturation bounds.
// math.Exp overflows past ~709.78 and 1/(1+exp(-x)) rounds to exactly 1
// for x above ~36.7, so outputs are nudged back into the open interval.
const (
	logisticLower = 0.0
	logisticUpper = 1.0
)

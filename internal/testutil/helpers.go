// Package testutil provides reusable test helper functions for echo distiller tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	SignalTolerance  = 1e-9
	MetricTolerance  = 1e-6
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertFinite verifies that a scalar is neither NaN nor Inf.
func AssertFinite(t *testing.T, v float64, msgAndArgs ...any) bool {
	t.Helper()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return assert.Fail(t, "value is not finite", msgAndArgs...)
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertAllInOpenRange verifies that all elements are within (min, max).
func AssertAllInOpenRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v <= minVal || v >= maxVal {
			return assert.Fail(t, "value out of open range",
				"s[%d]=%g is outside range (%g, %g)", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertBitIdentical verifies that two slices hold exactly the same float64 bits.
func AssertBitIdentical(t *testing.T, expected, actual []float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if math.Float64bits(expected[i]) != math.Float64bits(actual[i]) {
			return assert.Fail(t, "slices differ",
				"index %d: %v != %v", i, expected[i], actual[i])
		}
	}
	return true
}

// AssertAllNear verifies that every element is within tolerance of target.
func AssertAllNear(t *testing.T, s []float64, target, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.Abs(v-target) > tolerance {
			return assert.Fail(t, "value not near target",
				"s[%d]=%g differs from %g by more than %g", i, v, target, tolerance)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertLengthEquals verifies that a slice has the expected length.
func AssertLengthEquals(t *testing.T, s []float64, expectedLen int, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Len(t, s, expectedLen, msgAndArgs...)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// Variance returns the population variance of s. Used by tests comparing
// signal content without pulling the engine's helpers into test scope.
func Variance(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var mean float64
	for _, v := range s {
		mean += v
	}
	mean /= float64(len(s))
	var acc float64
	for _, v := range s {
		d := v - mean
		acc += d * d
	}
	return acc / float64(len(s))
}

// AssertMonotonicIncreasing verifies that a slice is strictly increasing.
func AssertMonotonicIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return assert.Fail(t, "not strictly increasing",
				"s[%d]=%f <= s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// Package simdops provides the SIMD vector kernels used by the echo engine.
//
// The engine works on float64 throughout (gonum's real FFT is float64 only),
// so only the f64 kernels are wired. Function pointers keep the call sites
// independent of the concrete implementation and let benchmarks swap in
// scalar reference versions.
package simdops

import (
	"github.com/tphakala/simd/f64"
)

// Ops provides SIMD-accelerated float64 operations.
type Ops struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []float64) float64

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

// Pre-instantiated operations. Package-level to avoid repeated allocation.
var ops64 = Ops{
	DotProductUnsafe: f64.DotProductUnsafe,
	Sum:              f64.Sum,
	Scale:            f64.Scale,
}

// Float64Ops returns the float64 SIMD operations.
func Float64Ops() *Ops {
	return &ops64
}

// Energy returns the sum of squares of x.
func Energy(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return ops64.DotProductUnsafe(x, x)
}

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return ops64.Sum(x) / float64(len(x))
}

// ScaleInPlace multiplies every element of x by s.
func ScaleInPlace(x []float64, s float64) {
	if len(x) == 0 {
		return
	}
	ops64.Scale(x, x, s)
}

package engine

// SmoothingRounds returns how many circular smoothing rounds a distillation
// with the given iteration count applies. The first iteration is the
// spectral reconstruction itself, so iterations=1 smooths zero times.
func SmoothingRounds(iterations int) int {
	if iterations <= 1 {
		return 0
	}
	return iterations - 1
}

// CircularSmooth applies rounds of x = 0.7*x + 0.3*roll(x, 1) in place.
// The shift wraps: the last sample feeds the first.
func CircularSmooth(x []float64, rounds int) {
	n := len(x)
	if n == 0 {
		return
	}

	for range rounds {
		prev := x[n-1]
		for i, cur := range x {
			x[i] = smoothKeep*cur + smoothShift*prev
			prev = cur
		}
	}
}

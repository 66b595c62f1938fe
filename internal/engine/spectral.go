package engine

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-echo-distiller/internal/mathutil"
	"github.com/tphakala/go-echo-distiller/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
)

// GateBins returns the number of half-spectrum bins for a signal of n samples.
func GateBins(n int) int {
	return n/fftHermitianDivisor + 1
}

// Focus returns the gate centre in multiples of the median magnitude.
func Focus(resonance float64) float64 {
	return focusOffset + resonance*focusResonance
}

// PhaseAlignment returns the scalar applied to every bin phase.
func PhaseAlignment(decoherence float64) float64 {
	return math.Exp(-decoherence * phaseDamping)
}

// Distiller performs spectral distillation of fixed-length echoes.
//
// Pipeline per call:
//  1. Real FFT of the raw echo (N/2+1 bins)
//  2. Logistic gate around focus × median magnitude
//  3. Every phase scaled by exp(-0.8·decoherence)
//  4. Inverse real FFT, normalised by 1/N
//  5. Circular smoothing rounds
//
// A Distiller keeps pre-allocated transform buffers and is not safe for
// concurrent use; create one per goroutine. Returned slices are always
// freshly allocated and never alias the internal buffers.
type Distiller struct {
	fft   *fourier.FFT
	n     int
	bins  int
	scale float64 // 1/n for IFFT normalization (gonum doesn't normalize)

	// Working buffers
	coeffs    []complex128
	magnitude []float64
}

// NewDistiller creates a distiller for echoes of n samples.
func NewDistiller(n int) (*Distiller, error) {
	if n < minPoints {
		return nil, fmt.Errorf("%w: %d (need at least %d)", ErrTooFewPoints, n, minPoints)
	}

	bins := GateBins(n)
	return &Distiller{
		fft:       fourier.NewFFT(n),
		n:         n,
		bins:      bins,
		scale:     1.0 / float64(n),
		coeffs:    make([]complex128, bins),
		magnitude: make([]float64, bins),
	}, nil
}

// Len returns the echo length this distiller accepts.
func (d *Distiller) Len() int {
	return d.n
}

// Distill gates, phase-aligns, reconstructs and smooths raw.
// It returns the distilled echo (len(raw) samples) and the gate (N/2+1 values in (0, 1)).
func (d *Distiller) Distill(raw []float64, resonance, decoherence float64, iterations int) (distilled, gate []float64, err error) {
	if len(raw) != d.n {
		return nil, nil, fmt.Errorf("%w: distiller expects %d samples, got %d", ErrLengthMismatch, d.n, len(raw))
	}

	d.coeffs = d.fft.Coefficients(d.coeffs, raw)

	for k, c := range d.coeffs {
		d.magnitude[k] = cmplx.Abs(c)
	}
	median := mathutil.Median(d.magnitude) + spectralEpsilon

	// Adaptive gate: recomputed every call because the median follows the signal
	focus := Focus(resonance)
	gate = make([]float64, d.bins)
	for k, m := range d.magnitude {
		gate[k] = mathutil.Gate(m/median - focus)
	}

	// Rebuild the spectrum with gated magnitudes and damped phases.
	// The coefficient buffer is reused since each bin is read before it is written.
	alignment := PhaseAlignment(decoherence)
	for k, c := range d.coeffs {
		d.coeffs[k] = cmplx.Rect(d.magnitude[k]*gate[k], cmplx.Phase(c)*alignment)
	}

	distilled = d.fft.Sequence(make([]float64, d.n), d.coeffs)
	simdops.ScaleInPlace(distilled, d.scale)

	CircularSmooth(distilled, SmoothingRounds(iterations))

	return distilled, gate, nil
}

// Distill is a convenience wrapper that allocates a Distiller for one call.
func Distill(raw []float64, resonance, decoherence float64, iterations int) (distilled, gate []float64, err error) {
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("%w: raw echo", ErrEmptyInput)
	}

	d, err := NewDistiller(len(raw))
	if err != nil {
		return nil, nil, err
	}
	return d.Distill(raw, resonance, decoherence, iterations)
}

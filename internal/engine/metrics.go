package engine

import (
	"fmt"

	"github.com/tphakala/go-echo-distiller/internal/mathutil"
	"github.com/tphakala/go-echo-distiller/internal/simdops"
	"gonum.org/v1/gonum/floats"
)

// Metrics summarises a distillation.
type Metrics struct {
	// CoherenceRatio is distilled energy over raw energy. Not clamped;
	// smoothing can push it above 1.
	CoherenceRatio float64

	// SpectralFocus is the mean gate value, in (0, 1).
	SpectralFocus float64

	// PhaseStability is 1/(1+σ) of the raw-minus-distilled residual, in (0, 1].
	PhaseStability float64
}

// ComputeMetrics derives the three quality metrics from a raw echo, its
// distillation and the gate that produced it.
func ComputeMetrics(raw, distilled, gate []float64) (Metrics, error) {
	if len(raw) == 0 {
		return Metrics{}, fmt.Errorf("%w: raw echo", ErrEmptyInput)
	}
	if len(raw) != len(distilled) {
		return Metrics{}, fmt.Errorf("%w: raw has %d samples, distilled has %d",
			ErrLengthMismatch, len(raw), len(distilled))
	}
	if len(gate) == 0 {
		return Metrics{}, fmt.Errorf("%w: gate", ErrEmptyInput)
	}

	residual := floats.SubTo(make([]float64, len(raw)), raw, distilled)

	return Metrics{
		CoherenceRatio: simdops.Energy(distilled) / (simdops.Energy(raw) + energyEpsilon),
		SpectralFocus:  simdops.Mean(gate),
		PhaseStability: 1.0 / (1.0 + mathutil.PopStdDev(residual)),
	}, nil
}

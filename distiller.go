package distiller

import (
	"fmt"

	"github.com/tphakala/go-echo-distiller/internal/engine"
	"github.com/tphakala/go-echo-distiller/internal/pipeline"
)

// Metrics summarises one distillation.
//
//   - CoherenceRatio: distilled energy / raw energy. Not clamped to 1.
//   - SpectralFocus: mean gate value, in (0, 1).
//   - PhaseStability: 1/(1+σ) of the raw-minus-distilled residual, in (0, 1].
type Metrics = engine.Metrics

// Result holds every artefact of one run.
type Result struct {
	Params    Params
	Time      []float64 // Sample times over [0, 12]
	Raw       []float64 // Synthesized echo
	Distilled []float64 // Gated, phase-aligned, smoothed reconstruction
	Gate      []float64 // Per-bin gate, Points/2+1 values in (0, 1)
	Metrics   Metrics
}

// Synthesize builds a raw echo over a time axis of points samples spanning [0, 12].
// Identical arguments always return bit-identical slices.
func Synthesize(points, depth int, resonance, decoherence float64, seed int64) (time, raw []float64, err error) {
	if err := validatePoints(points); err != nil {
		return nil, nil, err
	}
	if err := validateDepth(depth); err != nil {
		return nil, nil, err
	}
	if err := validateShape(resonance, decoherence); err != nil {
		return nil, nil, err
	}
	if err := validateSeed(seed); err != nil {
		return nil, nil, err
	}

	return engine.Synthesize(points, depth, resonance, decoherence, seed)
}

// Distill gates the spectrum of raw, damps its phases, reconstructs it and
// applies iterations-1 circular smoothing rounds.
// The raw length is validated as the points field.
func Distill(raw []float64, resonance, decoherence float64, iterations int) (distilled, gate []float64, err error) {
	if err := validatePoints(len(raw)); err != nil {
		return nil, nil, err
	}
	if err := validateShape(resonance, decoherence); err != nil {
		return nil, nil, err
	}
	if err := validateIterations(iterations); err != nil {
		return nil, nil, err
	}

	return engine.Distill(raw, resonance, decoherence, iterations)
}

// ComputeMetrics derives the quality metrics of a distillation.
// raw and distilled must have equal length and gate must hold len(raw)/2+1 values.
func ComputeMetrics(raw, distilled, gate []float64) (Metrics, error) {
	if len(raw) == 0 {
		return Metrics{}, &FieldError{Field: FieldPoints, Value: 0, Reason: "raw echo is empty"}
	}
	if want := GateBins(len(raw)); len(gate) != want {
		return Metrics{}, fmt.Errorf("%w: gate has %d bins, want %d", ErrLengthMismatch, len(gate), want)
	}

	return engine.ComputeMetrics(raw, distilled, gate)
}

// Run validates p and executes synthesis, distillation and metrics once.
func Run(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r, err := pipeline.Run(p.toPipeline())
	if err != nil {
		return nil, err
	}
	return fromPipelineResult(r), nil
}

// RunBatch validates and runs independent parameter sets, concurrently when
// parallel is true. Results keep the input order.
func RunBatch(params []Params, parallel bool) ([]*Result, error) {
	specs := make([]pipeline.Params, len(params))
	for i := range params {
		if err := params[i].Validate(); err != nil {
			return nil, fmt.Errorf("params %d: %w", i, err)
		}
		specs[i] = params[i].toPipeline()
	}

	results, err := pipeline.RunBatch(specs, parallel)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, len(results))
	for i, r := range results {
		out[i] = fromPipelineResult(r)
	}
	return out, nil
}

func fromPipelineResult(r *pipeline.Result) *Result {
	return &Result{
		Params:    fromPipeline(r.Params),
		Time:      r.Time,
		Raw:       r.Raw,
		Distilled: r.Distilled,
		Gate:      r.Gate,
		Metrics:   r.Metrics,
	}
}

package distiller

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tphakala/go-echo-distiller/internal/engine"
	"github.com/tphakala/go-echo-distiller/internal/pipeline"
)

// Common errors returned by the distiller.
var (
	// ErrInvalidParams indicates a parameter outside its accepted range.
	// The concrete error is a *FieldError naming the offending field.
	ErrInvalidParams = errors.New("invalid echo parameters")

	// ErrLengthMismatch indicates signals or gates whose lengths do not agree.
	ErrLengthMismatch = engine.ErrLengthMismatch
)

// FieldError reports which parameter failed validation and why.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrInvalidParams, e.Field, e.Value, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidParams) hold for every FieldError.
func (e *FieldError) Unwrap() error {
	return ErrInvalidParams
}

// Params is the full parameter set for one echo run.
type Params struct {
	// Points is the sample count: 512, 1024 or 2048.
	Points int

	// Depth is the number of harmonic layers, 2-10.
	Depth int

	// Resonance sets the base frequency and layer gain, 0.1-1.0.
	// It also moves the spectral gate centre.
	Resonance float64

	// Decoherence sets damping, noise and phase damping, 0.0-1.0.
	Decoherence float64

	// Iterations controls smoothing: iterations-1 circular rounds, 1-8.
	Iterations int

	// Seed selects the noise realisation, 0-999999.
	Seed int64
}

// DefaultParams returns the parameters the dashboard starts with.
func DefaultParams() Params {
	return Params{
		Points:      defaultPoints,
		Depth:       defaultDepth,
		Resonance:   defaultResonance,
		Decoherence: defaultDecoherence,
		Iterations:  defaultIterations,
		Seed:        defaultSeed,
	}
}

// SupportedPoints returns the accepted sample counts.
func SupportedPoints() []int {
	return slices.Clone(supportedPoints[:])
}

// GateBins returns the gate length for an echo of points samples.
func GateBins(points int) int {
	return engine.GateBins(points)
}

// Validate checks every field against its accepted range.
// The first failing field is reported as a *FieldError.
func (p *Params) Validate() error {
	if err := validatePoints(p.Points); err != nil {
		return err
	}
	if err := validateDepth(p.Depth); err != nil {
		return err
	}
	if err := validateShape(p.Resonance, p.Decoherence); err != nil {
		return err
	}
	if err := validateIterations(p.Iterations); err != nil {
		return err
	}
	return validateSeed(p.Seed)
}

func (p *Params) toPipeline() pipeline.Params {
	return pipeline.Params{
		Points:      p.Points,
		Depth:       p.Depth,
		Resonance:   p.Resonance,
		Decoherence: p.Decoherence,
		Iterations:  p.Iterations,
		Seed:        p.Seed,
	}
}

func fromPipeline(p pipeline.Params) Params {
	return Params{
		Points:      p.Points,
		Depth:       p.Depth,
		Resonance:   p.Resonance,
		Decoherence: p.Decoherence,
		Iterations:  p.Iterations,
		Seed:        p.Seed,
	}
}

func validatePoints(points int) error {
	if !slices.Contains(supportedPoints[:], points) {
		return &FieldError{Field: FieldPoints, Value: points, Reason: fmt.Sprintf("must be one of %v", supportedPoints)}
	}
	return nil
}

func validateDepth(depth int) error {
	if depth < minDepth || depth > maxDepth {
		return &FieldError{Field: FieldDepth, Value: depth, Reason: fmt.Sprintf("must be in [%d, %d]", minDepth, maxDepth)}
	}
	return nil
}

func validateIterations(iterations int) error {
	if iterations < minIterations || iterations > maxIterations {
		return &FieldError{Field: FieldIterations, Value: iterations, Reason: fmt.Sprintf("must be in [%d, %d]", minIterations, maxIterations)}
	}
	return nil
}

func validateSeed(seed int64) error {
	if seed < minSeed || seed > maxSeed {
		return &FieldError{Field: FieldSeed, Value: seed, Reason: fmt.Sprintf("must be in [%d, %d]", minSeed, maxSeed)}
	}
	return nil
}

// validateShape checks the two continuous parameters shared by synthesis and distillation.
func validateShape(resonance, decoherence float64) error {
	if err := validateFloat(FieldResonance, resonance, minResonance, maxResonance); err != nil {
		return err
	}
	return validateFloat(FieldDecoherence, decoherence, minDecoherence, maxDecoherence)
}

func validateFloat(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &FieldError{Field: field, Value: v, Reason: fmt.Sprintf("must be in [%g, %g]", lo, hi)}
	}
	return nil
}

// Package pipeline runs the echo distillation end to end.
//
// A run is a fixed chain of stages:
//
//	Synthesize -> FFT -> Gate -> PhaseAlign -> IFFT -> Smooth×(iterations-1) -> Metrics
//
// Every run is independent: nothing is shared between calls, so batches of
// parameter sets can be evaluated concurrently.
package pipeline

import (
	"fmt"
	"math"

	"github.com/tphakala/go-echo-distiller/internal/engine"
)

// StageType identifies a processing stage in a run.
type StageType int

const (
	// StageSynthesize builds the raw echo.
	StageSynthesize StageType = iota

	// StageFFT transforms the raw echo to the half spectrum.
	StageFFT

	// StageGate applies the adaptive logistic gate.
	StageGate

	// StagePhaseAlign damps every bin phase.
	StagePhaseAlign

	// StageIFFT reconstructs the time-domain echo.
	StageIFFT

	// StageSmooth applies circular smoothing rounds.
	StageSmooth
)

// String returns the stage name.
func (s StageType) String() string {
	switch s {
	case StageSynthesize:
		return "synthesize"
	case StageFFT:
		return "fft"
	case StageGate:
		return "gate"
	case StagePhaseAlign:
		return "phase-align"
	case StageIFFT:
		return "ifft"
	case StageSmooth:
		return "smooth"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageSpec describes one stage of a planned run.
type StageSpec struct {
	Type   StageType
	Points int     // Samples entering the stage
	Bins   int     // Spectrum bins touched (0 for time-domain stages)
	Layers int     // Harmonic layers (synthesis only)
	Rounds int     // Smoothing rounds (smooth only)
	Factor float64 // Stage scalar: focus for gate, alignment for phase
}

// Plan is the resolved stage chain for one parameter set.
type Plan struct {
	stages []StageSpec
}

// BuildPlan resolves the stage chain for p.
// The smoothing stage is omitted when it would run zero rounds.
func BuildPlan(p Params) (*Plan, error) {
	if p.Points <= 0 {
		return nil, fmt.Errorf("invalid points: %d", p.Points)
	}

	bins := engine.GateBins(p.Points)
	plan := &Plan{stages: make([]StageSpec, 0, fixedStageCount+1)}

	plan.stages = append(plan.stages,
		StageSpec{Type: StageSynthesize, Points: p.Points, Layers: p.Depth},
		StageSpec{Type: StageFFT, Points: p.Points, Bins: bins},
		StageSpec{Type: StageGate, Points: p.Points, Bins: bins, Factor: engine.Focus(p.Resonance)},
		StageSpec{Type: StagePhaseAlign, Points: p.Points, Bins: bins, Factor: engine.PhaseAlignment(p.Decoherence)},
		StageSpec{Type: StageIFFT, Points: p.Points, Bins: bins},
	)

	if rounds := engine.SmoothingRounds(p.Iterations); rounds > 0 {
		plan.stages = append(plan.stages, StageSpec{Type: StageSmooth, Points: p.Points, Rounds: rounds})
	}

	return plan, nil
}

// Stages returns the planned stages.
func (p *Plan) Stages() []StageSpec {
	return p.stages
}

// Cost returns a rough relative cost of the run, useful for ordering batches.
func (p *Plan) Cost() float64 {
	var cost float64
	for _, s := range p.stages {
		n := float64(s.Points)
		switch s.Type {
		case StageSynthesize:
			cost += n * float64(costSynthPerLayer*s.Layers+costCrossMod+costNoise)
		case StageFFT, StageIFFT:
			cost += costFFTPerLog * n * math.Log2(n)
		case StageGate, StagePhaseAlign:
			cost += float64(s.Bins)
		case StageSmooth:
			cost += n * float64(costSmoothRound*s.Rounds)
		}
	}
	return cost
}

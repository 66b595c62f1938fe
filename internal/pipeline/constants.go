package pipeline

// Plan construction constants
const (
	// Fixed stages: synthesis, forward FFT, gate, phase alignment, inverse FFT
	fixedStageCount = 5

	// Cost weights (relative units per sample) used by Plan.Cost
	costSynthPerLayer = 3 // sin + exp + mul per layer
	costCrossMod      = 2 // sin + cos
	costNoise         = 1 // one normal draw
	costFFTPerLog     = 1 // per sample per log2(n), each transform
	costSmoothRound   = 1 // one fused multiply-add per sample
)

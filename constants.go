package distiller

// Accepted parameter ranges. Values outside these are rejected, never clamped.
const (
	minDepth = 2
	maxDepth = 10

	minResonance = 0.1
	maxResonance = 1.0

	minDecoherence = 0.0
	maxDecoherence = 1.0

	minIterations = 1
	maxIterations = 8

	minSeed = 0
	maxSeed = 999999
)

// supportedPoints lists the accepted sample counts.
var supportedPoints = [...]int{512, 1024, 2048}

// Dashboard defaults
const (
	defaultPoints      = 1024
	defaultDepth       = 4
	defaultResonance   = 0.6
	defaultDecoherence = 0.25
	defaultIterations  = 3
	defaultSeed        = 42
)

// Field names reported in validation errors.
const (
	FieldPoints      = "points"
	FieldDepth       = "depth"
	FieldResonance   = "resonance"
	FieldDecoherence = "decoherence"
	FieldIterations  = "iterations"
	FieldSeed        = "seed"
)

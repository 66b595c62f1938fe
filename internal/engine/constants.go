package engine

// Time domain constants
const (
	timeStart = 0.0  // First sample time
	timeEnd   = 12.0 // Last sample time (inclusive)

	minPoints = 2 // Span needs both endpoints
)

// Synthesis constants
const (
	// Base frequency: baseFreqOffset + resonance*baseFreqResonance
	baseFreqOffset    = 0.8
	baseFreqResonance = 1.3

	// Harmonic ladder: layer l runs at baseFreq * harmonicRatio^(l-1)
	harmonicRatio = 1.5

	// Layer amplitude: layerDecay^l * (1 + resonance*resonanceGain)
	layerDecay    = 0.68
	resonanceGain = 0.4

	// Damping envelope: exp(-t * (dampingPerLayer*l + decoherence*dampingDecoherence))
	dampingPerLayer    = 0.06
	dampingDecoherence = 0.18

	// Per-layer phase offset: l * layerPhaseStep
	layerPhaseStep = 0.21

	// Cross-modulation: crossModAmplitude * sin(2π*(f/crossModDivisor)*t) * cos(2π*f*t)
	crossModAmplitude = 0.32
	crossModDivisor   = 3.0

	// Noise stddev: noiseFloor + decoherence*noiseDecoherence
	noiseFloor       = 0.06
	noiseDecoherence = 0.14

	// Second PCG word, fixed so the seed alone selects the stream.
	pcgStream = 0x9e3779b97f4a7c15
)

// Distillation constants
const (
	// spectralEpsilon keeps the median magnitude away from zero.
	spectralEpsilon = 1e-8

	// Gate centre: focusOffset + resonance*focusResonance median multiples
	focusOffset    = 1.0
	focusResonance = 2.6

	// Phase alignment: exp(-decoherence * phaseDamping)
	phaseDamping = 0.8

	// Circular smoothing: smoothKeep*x + smoothShift*roll(x, 1)
	smoothKeep  = 0.7
	smoothShift = 0.3

	// fftHermitianDivisor is used to calculate unique frequency bins in real FFT.
	// Due to Hermitian symmetry, a real FFT of size N has N/2 + 1 unique complex coefficients.
	fftHermitianDivisor = 2
)

// Metrics constants
const (
	// energyEpsilon guards the coherence ratio against a silent raw echo.
	energyEpsilon = 1e-8
)

// Package engine implements echo synthesis, spectral distillation and the run metrics.
package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// BaseFrequency returns the fundamental of the harmonic ladder for a resonance.
func BaseFrequency(resonance float64) float64 {
	return baseFreqOffset + resonance*baseFreqResonance
}

// LayerFrequency returns the frequency of 1-indexed layer l.
func LayerFrequency(baseFreq float64, l int) float64 {
	return baseFreq * math.Pow(harmonicRatio, float64(l-1))
}

// LayerAmplitude returns the peak amplitude of 1-indexed layer l.
func LayerAmplitude(resonance float64, l int) float64 {
	return math.Pow(layerDecay, float64(l)) * (1 + resonance*resonanceGain)
}

// NoiseStdDev returns the standard deviation of the additive Gaussian noise.
func NoiseStdDev(decoherence float64) float64 {
	return noiseFloor + decoherence*noiseDecoherence
}

// TimeAxis returns points samples spaced linearly over [0, 12], both ends included.
func TimeAxis(points int) ([]float64, error) {
	if points < minPoints {
		return nil, fmt.Errorf("%w: %d (need at least %d)", ErrTooFewPoints, points, minPoints)
	}
	return floats.Span(make([]float64, points), timeStart, timeEnd), nil
}

// Synthesize builds a raw echo: depth damped harmonic layers, a fixed
// cross-modulation term and seeded Gaussian noise.
//
// A fresh generator is seeded from seed on every call, so identical
// arguments always produce bit-identical output. The returned slices are
// owned by the caller.
func Synthesize(points, depth int, resonance, decoherence float64, seed int64) (timeAxis, raw []float64, err error) {
	if depth < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}

	timeAxis, err = TimeAxis(points)
	if err != nil {
		return nil, nil, err
	}

	raw = make([]float64, points)
	baseFreq := BaseFrequency(resonance)

	// Harmonic layers, accumulated in layer order
	for l := 1; l <= depth; l++ {
		omega := 2 * math.Pi * LayerFrequency(baseFreq, l)
		amplitude := LayerAmplitude(resonance, l)
		decay := dampingPerLayer*float64(l) + decoherence*dampingDecoherence
		phase := float64(l) * layerPhaseStep

		for i, t := range timeAxis {
			raw[i] += amplitude * math.Sin(omega*t+phase) * math.Exp(-t*decay)
		}
	}

	// Cross-modulation between the fundamental and its third
	carrier := 2 * math.Pi * baseFreq
	modulator := 2 * math.Pi * (baseFreq / crossModDivisor)
	for i, t := range timeAxis {
		raw[i] += crossModAmplitude * math.Sin(modulator*t) * math.Cos(carrier*t)
	}

	// Noise comes last so the deterministic terms never consume draws.
	rng := rand.New(rand.NewPCG(uint64(seed), pcgStream))
	sigma := NoiseStdDev(decoherence)
	for i := range raw {
		raw[i] += sigma * rng.NormFloat64()
	}

	return timeAxis, raw, nil
}

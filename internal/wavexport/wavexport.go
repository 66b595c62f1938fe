// Package wavexport writes echo signals as mono PCM WAV files so they can be
// auditioned.
package wavexport

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f64"
)

// PCM constants
const (
	BitDepth16 = 16
	BitDepth24 = 24

	maxInt16 = 32767.0
	maxInt24 = 8388607.0

	monoChannels  = 1
	pcmFormat     = 1
	minSampleRate = 1
)

// DefaultSampleRate is the playback rate used when none is given.
const DefaultSampleRate = 8000

// Common errors.
var (
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrInvalidSampleRate   = errors.New("invalid sample rate")
	ErrNonFiniteSample     = errors.New("non-finite sample")
)

// Write encodes samples as mono PCM into w. The signal is peak-normalised
// to full scale; an all-zero signal is written as silence.
func Write(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int) error {
	maxVal, err := fullScale(bitDepth)
	if err != nil {
		return err
	}
	if sampleRate < minSampleRate {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	data, err := quantize(samples, maxVal)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, monoChannels, pcmFormat)
	buf := &audio.IntBuffer{
		Data: data,
		Format: &audio.Format{
			NumChannels: monoChannels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// WriteFile creates path and writes samples to it.
func WriteFile(path string, samples []float64, sampleRate, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Write(f, samples, sampleRate, bitDepth)
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case BitDepth16:
		return maxInt16, nil
	case BitDepth24:
		return maxInt24, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// quantize scales samples by the inverse peak and rounds to integers.
func quantize(samples []float64, maxVal float64) ([]int, error) {
	peak := 0.0
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w at index %d", ErrNonFiniteSample, i)
		}
		peak = max(peak, math.Abs(s))
	}

	out := make([]int, len(samples))
	if peak == 0 {
		return out, nil
	}

	scaled := make([]float64, len(samples))
	f64.Scale(scaled, samples, maxVal/peak)
	for i, s := range scaled {
		out[i] = int(math.Round(min(maxVal, max(-maxVal, s))))
	}
	return out, nil
}

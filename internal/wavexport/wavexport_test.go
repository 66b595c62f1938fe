package wavexport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFile(t *testing.T, path string) (*wav.Decoder, []int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return dec, buf.Data
}

func sine(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.3 * math.Sin(2*math.Pi*float64(i)/64)
	}
	return out
}

func TestWriteFile_RoundTrip(t *testing.T) {
	for _, depth := range []int{BitDepth16, BitDepth24} {
		path := filepath.Join(t.TempDir(), "echo.wav")
		samples := sine(1024)

		require.NoError(t, WriteFile(path, samples, DefaultSampleRate, depth))

		dec, data := decodeFile(t, path)
		assert.Equal(t, DefaultSampleRate, int(dec.SampleRate))
		assert.Equal(t, 1, int(dec.NumChans))
		assert.Equal(t, depth, int(dec.BitDepth))
		require.Len(t, data, len(samples))

		full, _ := fullScale(depth)
		peak := 0
		for _, v := range data {
			peak = max(peak, abs(v))
		}
		assert.Equal(t, int(full), peak, "signal is peak normalised")

		// Shape preserved up to quantisation
		for i := range samples {
			assert.InDelta(t, samples[i]/0.3, float64(data[i])/full, 1.0/full+1e-9)
		}
	}
}

func TestWrite_SilenceForZeroSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.wav")
	require.NoError(t, WriteFile(path, make([]float64, 256), DefaultSampleRate, BitDepth16))

	_, data := decodeFile(t, path)
	require.Len(t, data, 256)
	for _, v := range data {
		assert.Zero(t, v)
	}
}

func TestWrite_Errors(t *testing.T) {
	dir := t.TempDir()

	err := WriteFile(filepath.Join(dir, "a.wav"), sine(8), DefaultSampleRate, 8)
	assert.ErrorIs(t, err, ErrUnsupportedBitDepth)

	err = WriteFile(filepath.Join(dir, "b.wav"), sine(8), 0, BitDepth16)
	assert.ErrorIs(t, err, ErrInvalidSampleRate)

	bad := sine(8)
	bad[3] = math.NaN()
	err = WriteFile(filepath.Join(dir, "c.wav"), bad, DefaultSampleRate, BitDepth16)
	assert.ErrorIs(t, err, ErrNonFiniteSample)

	err = WriteFile(filepath.Join(dir, "missing", "d.wav"), sine(8), DefaultSampleRate, BitDepth16)
	assert.Error(t, err)
}

func TestQuantize_Symmetric(t *testing.T) {
	out, err := quantize([]float64{-2, 0, 1, 2}, maxInt16)
	require.NoError(t, err)
	assert.Equal(t, []int{-32767, 0, 16384, 32767}, out)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

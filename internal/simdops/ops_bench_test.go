package simdops

import (
	"strconv"
	"testing"

	"github.com/tphakala/simd/f64"
)

// echoSizes are the sample counts accepted by the pipeline.
var echoSizes = []int{512, 1024, 2048}

func benchInput(n int) []float64 {
	a := make([]float64, n)
	for i := range a {
		a[i] = float64(i) * 0.01
	}
	return a
}

// BenchmarkDirectF64Energy measures direct SIMD call overhead.
func BenchmarkDirectF64Energy(b *testing.B) {
	for _, n := range echoSizes {
		a := benchInput(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = f64.DotProductUnsafe(a, a)
			}
		})
	}
}

// BenchmarkIndirectF64Energy measures the call through Energy and the Ops struct.
func BenchmarkIndirectF64Energy(b *testing.B) {
	for _, n := range echoSizes {
		a := benchInput(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = Energy(a)
			}
		})
	}
}

// BenchmarkScalarEnergy is the plain Go reference loop.
func BenchmarkScalarEnergy(b *testing.B) {
	for _, n := range echoSizes {
		a := benchInput(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				var sum float64
				for _, v := range a {
					sum += v * v
				}
				_ = sum
			}
		})
	}
}

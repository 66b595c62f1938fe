package pipeline

import (
	"fmt"
	"sync"

	"github.com/tphakala/go-echo-distiller/internal/engine"
)

// Params is one full parameter set for a run.
type Params struct {
	Points      int
	Depth       int
	Resonance   float64
	Decoherence float64
	Iterations  int
	Seed        int64
}

// Result holds every artefact of a run. All slices are owned by the Result.
type Result struct {
	Params    Params
	Time      []float64
	Raw       []float64
	Distilled []float64
	Gate      []float64
	Metrics   engine.Metrics
}

// Run synthesizes, distills and measures one echo.
// Params are assumed validated by the caller.
func Run(p Params) (*Result, error) {
	timeAxis, raw, err := engine.Synthesize(p.Points, p.Depth, p.Resonance, p.Decoherence, p.Seed)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	distilled, gate, err := engine.Distill(raw, p.Resonance, p.Decoherence, p.Iterations)
	if err != nil {
		return nil, fmt.Errorf("distill: %w", err)
	}

	metrics, err := engine.ComputeMetrics(raw, distilled, gate)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	return &Result{
		Params:    p,
		Time:      timeAxis,
		Raw:       raw,
		Distilled: distilled,
		Gate:      gate,
		Metrics:   metrics,
	}, nil
}

// RunBatch evaluates independent parameter sets.
// When parallel is true, each set runs in its own goroutine.
// Results are returned in input order and are bit-identical either way.
func RunBatch(params []Params, parallel bool) ([]*Result, error) {
	results := make([]*Result, len(params))

	// Sequential processing (default or when parallel disabled)
	if !parallel || len(params) <= 1 {
		for i, p := range params {
			r, err := Run(p)
			if err != nil {
				return nil, fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = r
		}
		return results, nil
	}

	// Parallel processing: one goroutine per parameter set
	var wg sync.WaitGroup
	errChan := make(chan error, len(params))

	for i := range params {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			r, err := Run(params[idx])
			if err != nil {
				errChan <- fmt.Errorf("run %d: %w", idx, err)
				return
			}
			results[idx] = r
		}(i)
	}

	wg.Wait()
	close(errChan)

	// Check for errors
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Package dashboard drives the interactive echo view and the structural
// mutation session behind it.
//
// The echo view renders one distillation per parameter change and only
// persists a run when Save is called. The mutation session is a small
// state machine owned by the caller and passed into every operation.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	distiller "github.com/tphakala/go-echo-distiller"
	"github.com/tphakala/go-echo-distiller/internal/pipeline"
	"github.com/tphakala/go-echo-distiller/internal/runstore"
)

var (
	// ErrNoStore is returned by Save and History when no store is configured.
	ErrNoStore = errors.New("dashboard has no run store")

	// ErrNoView is returned when saving a nil view.
	ErrNoView = errors.New("no rendered view")
)

// RunStore is the persistence the dashboard needs.
type RunStore interface {
	Append(ctx context.Context, rec runstore.Record) (runstore.Record, error)
	Recent(ctx context.Context, limit int) ([]runstore.Record, error)
}

// View is one rendered distillation.
type View struct {
	*distiller.Result

	// PassingBins counts gate values above one half.
	PassingBins int

	// PeakBin is the index of the largest gate value.
	PeakBin  int
	PeakGate float64

	// Stages names the stage chain that produced the view.
	Stages []string
}

// Dashboard renders echo views and records the ones the user keeps.
type Dashboard struct {
	store  RunStore
	logger *zap.Logger
	run    func(distiller.Params) (*distiller.Result, error)
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithStore sets the run store used by Save and History.
func WithStore(s RunStore) Option {
	return func(d *Dashboard) {
		d.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Dashboard.
func New(opts ...Option) *Dashboard {
	d := &Dashboard{
		logger: zap.NewNop(),
		run:    distiller.Run,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Render validates p and runs the pipeline once.
func (d *Dashboard) Render(p distiller.Params) (*View, error) {
	res, err := d.run(p)
	if err != nil {
		d.logger.Debug("render rejected", zap.Error(err))
		return nil, err
	}

	v := &View{Result: res}
	v.PassingBins, v.PeakBin, v.PeakGate = summarizeGate(res.Gate)

	plan, err := pipeline.BuildPlan(pipeline.Params{
		Points:      p.Points,
		Depth:       p.Depth,
		Resonance:   p.Resonance,
		Decoherence: p.Decoherence,
		Iterations:  p.Iterations,
		Seed:        p.Seed,
	})
	if err != nil {
		return nil, err
	}
	for _, st := range plan.Stages() {
		v.Stages = append(v.Stages, st.Type.String())
	}

	d.logger.Debug("view rendered",
		zap.Int("points", p.Points),
		zap.Int("depth", p.Depth),
		zap.Int64("seed", p.Seed),
		zap.Float64("coherence_ratio", res.Metrics.CoherenceRatio),
		zap.Int("passing_bins", v.PassingBins),
		zap.Strings("stages", v.Stages),
		zap.Float64("plan_cost", plan.Cost()),
	)
	return v, nil
}

// Save persists the parameters and metrics of v.
func (d *Dashboard) Save(ctx context.Context, v *View) (runstore.Record, error) {
	if d.store == nil {
		return runstore.Record{}, ErrNoStore
	}
	if v == nil || v.Result == nil {
		return runstore.Record{}, ErrNoView
	}

	rec, err := d.store.Append(ctx, RecordFromView(v))
	if err != nil {
		d.logger.Warn("save failed", zap.Error(err))
		return runstore.Record{}, fmt.Errorf("save: %w", err)
	}
	return rec, nil
}

// History returns up to limit saved runs, newest first.
func (d *Dashboard) History(ctx context.Context, limit int) ([]runstore.Record, error) {
	if d.store == nil {
		return nil, ErrNoStore
	}
	recs, err := d.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return recs, nil
}

// RecordFromView builds the persisted row for v. CreatedAt is left to the store.
func RecordFromView(v *View) runstore.Record {
	p := v.Params
	m := v.Metrics
	return runstore.Record{
		Seed:           p.Seed,
		Depth:          p.Depth,
		Resonance:      p.Resonance,
		Decoherence:    p.Decoherence,
		Iterations:     p.Iterations,
		CoherenceRatio: m.CoherenceRatio,
		SpectralFocus:  m.SpectralFocus,
		PhaseStability: m.PhaseStability,
	}
}

func summarizeGate(gate []float64) (passing, peak int, peakVal float64) {
	peak = -1
	for k, g := range gate {
		if g > gatePassThreshold {
			passing++
		}
		if peak < 0 || g > peakVal {
			peak, peakVal = k, g
		}
	}
	return passing, peak, peakVal
}

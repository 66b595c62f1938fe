package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	distiller "github.com/tphakala/go-echo-distiller"
	"github.com/tphakala/go-echo-distiller/internal/runstore"
)

type memStore struct {
	rows      []runstore.Record
	appendErr error
	recentErr error
}

func (m *memStore) Append(_ context.Context, rec runstore.Record) (runstore.Record, error) {
	if m.appendErr != nil {
		return runstore.Record{}, m.appendErr
	}
	rec.CreatedAt = "2026-01-01T00:00:00.000000Z"
	m.rows = append(m.rows, rec)
	return rec, nil
}

func (m *memStore) Recent(_ context.Context, limit int) ([]runstore.Record, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	out := make([]runstore.Record, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		out = append(out, m.rows[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func smallParams() distiller.Params {
	p := distiller.DefaultParams()
	p.Points = 512
	return p
}

func TestRender_RunsPipelineOnce(t *testing.T) {
	store := &memStore{}
	d := New(WithStore(store))

	calls := 0
	d.run = func(p distiller.Params) (*distiller.Result, error) {
		calls++
		return distiller.Run(p)
	}

	v, err := d.Render(smallParams())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, v.Raw, 512)
	assert.Len(t, v.Gate, 257)

	assert.Equal(t, []string{"synthesize", "fft", "gate", "phase-align", "ifft", "smooth"}, v.Stages)

	// Rendering never persists
	assert.Empty(t, store.rows)
}

func TestRender_GateSummary(t *testing.T) {
	d := New()
	v, err := d.Render(smallParams())
	require.NoError(t, err)

	passing := 0
	for _, g := range v.Gate {
		if g > 0.5 {
			passing++
		}
	}
	assert.Equal(t, passing, v.PassingBins)

	require.GreaterOrEqual(t, v.PeakBin, 0)
	for _, g := range v.Gate {
		assert.LessOrEqual(t, g, v.PeakGate)
	}
	assert.InDelta(t, v.Gate[v.PeakBin], v.PeakGate, 0)
}

func TestRender_SingleIterationSkipsSmoothStage(t *testing.T) {
	p := smallParams()
	p.Iterations = 1

	v, err := New().Render(p)
	require.NoError(t, err)
	assert.NotContains(t, v.Stages, "smooth")
}

func TestRender_InvalidParams(t *testing.T) {
	d := New()
	p := smallParams()
	p.Depth = 12

	_, err := d.Render(p)
	require.ErrorIs(t, err, distiller.ErrInvalidParams)

	var fe *distiller.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, distiller.FieldDepth, fe.Field)
}

func TestSave_PersistsParamsAndMetrics(t *testing.T) {
	store := &memStore{}
	d := New(WithStore(store))

	v, err := d.Render(smallParams())
	require.NoError(t, err)

	rec, err := d.Save(context.Background(), v)
	require.NoError(t, err)
	require.Len(t, store.rows, 1)

	assert.Equal(t, v.Params.Seed, rec.Seed)
	assert.Equal(t, v.Params.Depth, rec.Depth)
	assert.Equal(t, v.Params.Iterations, rec.Iterations)
	assert.InDelta(t, v.Metrics.CoherenceRatio, rec.CoherenceRatio, 0)
	assert.InDelta(t, v.Metrics.SpectralFocus, rec.SpectralFocus, 0)
	assert.InDelta(t, v.Metrics.PhaseStability, rec.PhaseStability, 0)
	assert.NotEmpty(t, rec.CreatedAt)
}

func TestSave_StoreFailure(t *testing.T) {
	store := &memStore{appendErr: runstore.ErrUnavailable}
	d := New(WithStore(store))

	v, err := d.Render(smallParams())
	require.NoError(t, err)

	_, err = d.Save(context.Background(), v)
	require.ErrorIs(t, err, runstore.ErrUnavailable)

	// The rendered view is unaffected
	assert.Len(t, v.Distilled, 512)
}

func TestSaveAndHistory_NoStore(t *testing.T) {
	d := New()
	_, err := d.Save(context.Background(), &View{Result: &distiller.Result{}})
	assert.ErrorIs(t, err, ErrNoStore)

	_, err = d.History(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestSave_NilView(t *testing.T) {
	d := New(WithStore(&memStore{}))
	_, err := d.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoView)
}

func TestHistory_Failure(t *testing.T) {
	boom := errors.New("boom")
	d := New(WithStore(&memStore{recentErr: boom}))

	_, err := d.History(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
}

func TestDashboard_WithParquetStore(t *testing.T) {
	store, err := runstore.Open(filepath.Join(t.TempDir(), "runs.parquet"))
	require.NoError(t, err)
	d := New(WithStore(store))
	ctx := context.Background()

	for _, seed := range []int64{1, 2, 3} {
		p := smallParams()
		p.Seed = seed
		v, err := d.Render(p)
		require.NoError(t, err)
		_, err = d.Save(ctx, v)
		require.NoError(t, err)
	}

	recs, err := d.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Contains(t, []int64{1, 2, 3}, r.Seed)
	}
}

func TestSummarizeGate(t *testing.T) {
	passing, peak, val := summarizeGate([]float64{0.2, 0.9, 0.51, 0.5})
	assert.Equal(t, 2, passing)
	assert.Equal(t, 1, peak)
	assert.InDelta(t, 0.9, val, 0)

	passing, peak, _ = summarizeGate(nil)
	assert.Equal(t, 0, passing)
	assert.Equal(t, -1, peak)
}

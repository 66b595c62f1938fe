package dashboard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 9, 7, 5, 3, 0, time.UTC)

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession(1234)

	assert.Equal(t, int64(1234), s.Seed)
	assert.Equal(t, 0, s.Observations)
	assert.Equal(t, 0, s.Stage)
	assert.InDelta(t, 0.35, s.Resonance, 0)
	assert.Empty(t, s.History)
}

func TestObserve_Formulas(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		s := NewSession(seed)
		for range 30 {
			obs := s.Observe(fixedNow)

			assert.Equal(t, s.Observations+1, obs.Step)
			assert.GreaterOrEqual(t, obs.Similarity, 0.02)
			assert.LessOrEqual(t, obs.Similarity, 0.98)
			assert.InDelta(t, math.Abs(0.5-obs.Similarity)*2, obs.Ambiguity, 1e-15)
			assert.InDelta(t, obs.Similarity*0.6+(1-obs.Ambiguity)*0.4, obs.Coherence, 1e-15)

			clarity := 1 - obs.Ambiguity
			assert.GreaterOrEqual(t, obs.Pressure, clarity*0.68-1e-12)
			assert.LessOrEqual(t, obs.Pressure, clarity*1.28+1e-12)
			assert.Equal(t, "07:05:03", obs.Timestamp)

			s.ApplyMutation(obs)
		}
	}
}

func TestObserve_DoesNotAdvanceCounters(t *testing.T) {
	s := NewSession(5)
	a := s.Observe(fixedNow)
	b := s.Observe(fixedNow)

	assert.Equal(t, 1, a.Step)
	assert.Equal(t, 1, b.Step)
	assert.Equal(t, 0, s.Observations)
	assert.Empty(t, s.History)
}

func TestObserve_Deterministic(t *testing.T) {
	a, b := NewSession(77), NewSession(77)
	for range 10 {
		assert.Equal(t, a.Step(fixedNow), b.Step(fixedNow))
	}

	c := NewSession(78)
	assert.NotEqual(t, NewSession(77).Observe(fixedNow), c.Observe(fixedNow))
}

func TestApplyMutation_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		stage     int
		pressure  float64
		wantStage int
		wantKind  EventKind
	}{
		{"high pressure mutates", 0, 0.70, 1, EventMutation},
		{"mutation caps at final stage", 4, 0.95, 4, EventHeld},
		{"threshold is exclusive above", 2, 0.64, 2, EventHeld},
		{"low pressure converges", 3, 0.10, 2, EventConvergence},
		{"convergence floors at zero", 0, 0.10, 0, EventHeld},
		{"threshold is exclusive below", 1, 0.26, 1, EventHeld},
		{"middle pressure holds", 2, 0.45, 2, EventHeld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(1)
			s.Stage = tt.stage

			msg := s.ApplyMutation(Observation{Step: 1, Pressure: tt.pressure, Coherence: 0.5})

			assert.Equal(t, tt.wantStage, s.Stage)
			require.Len(t, s.History, 1)
			assert.Equal(t, tt.wantKind, s.History[0].Kind)
			assert.Equal(t, msg, s.History[0].Message)
			assert.Equal(t, tt.wantStage, s.History[0].Stage)
		})
	}
}

func TestApplyMutation_ResonanceAndCounters(t *testing.T) {
	s := NewSession(1)
	s.ApplyMutation(Observation{Step: 7, Pressure: 0.5, Coherence: 0.9})

	assert.Equal(t, 7, s.Observations)
	assert.InDelta(t, 0.35*0.58+0.9*0.42, s.Resonance, 1e-15)
	assert.InDelta(t, s.Resonance, s.History[0].Resonance, 0)
}

func TestApplyMutation_HistoryNewestFirstAndCapped(t *testing.T) {
	s := NewSession(1)
	for step := 1; step <= 25; step++ {
		s.ApplyMutation(Observation{Step: step, Pressure: 0.5})
	}

	require.Len(t, s.History, 18)
	assert.Equal(t, 25, s.History[0].Step)
	assert.Equal(t, 8, s.History[17].Step)

	recent := s.RecentHistory(RecentHistoryLen)
	require.Len(t, recent, 8)
	assert.Equal(t, 25, recent[0].Step)
	assert.Equal(t, 18, recent[7].Step)

	assert.Len(t, s.RecentHistory(0), 18)
	assert.Len(t, s.RecentHistory(100), 18)
}

func TestReset(t *testing.T) {
	s := NewSession(3)
	for range 12 {
		s.Step(fixedNow)
	}
	require.NotEmpty(t, s.History)

	s.Reset(9)
	assert.Equal(t, NewSession(9).Seed, s.Seed)
	assert.Equal(t, 0, s.Observations)
	assert.Equal(t, 0, s.Stage)
	assert.InDelta(t, 0.35, s.Resonance, 0)
	assert.Empty(t, s.History)

	// RNG restarts from the new seed
	assert.Equal(t, NewSession(9).Observe(fixedNow), s.Observe(fixedNow))
}

func TestStep_StageStaysInRange(t *testing.T) {
	s := NewSession(42)
	for range 200 {
		ev := s.Step(fixedNow)
		assert.GreaterOrEqual(t, ev.Stage, 0)
		assert.LessOrEqual(t, ev.Stage, 4)
	}
	assert.Equal(t, 200, s.Observations)
}

func TestEventString(t *testing.T) {
	ev := Event{
		Observation: Observation{Timestamp: "01:02:03", Step: 4, Similarity: 0.5, Ambiguity: 0, Pressure: 0.7},
		Stage:       1,
		Message:     "mutation: advanced to stage 1",
	}
	assert.Equal(t,
		"01:02:03 #4 similarity=0.500 ambiguity=0.000 pressure=0.700 stage=1 mutation: advanced to stage 1",
		ev.String())
}

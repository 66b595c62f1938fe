package dashboard

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// EventKind classifies the outcome of one applied observation.
type EventKind string

// Event kinds.
const (
	EventHeld        EventKind = "held"
	EventMutation    EventKind = "mutation"
	EventConvergence EventKind = "convergence"
)

// Observation is one look at the uncertain self-similarity.
type Observation struct {
	Timestamp  string
	Step       int
	Similarity float64
	Ambiguity  float64
	Pressure   float64
	Coherence  float64
}

// Event is a history entry: the observation plus what it did to the session.
type Event struct {
	Observation
	Kind      EventKind
	Message   string
	Stage     int
	Resonance float64
}

func (e Event) String() string {
	return fmt.Sprintf("%s #%d similarity=%.3f ambiguity=%.3f pressure=%.3f stage=%d %s",
		e.Timestamp, e.Step, e.Similarity, e.Ambiguity, e.Pressure, e.Stage, e.Message)
}

// Session is the mutation state of one viewer. It is not safe for
// concurrent use; the owner serialises calls.
type Session struct {
	Seed         int64
	Observations int
	Stage        int
	Resonance    float64
	History      []Event

	rng *rand.Rand
}

// NewSession returns a session in its initial state.
func NewSession(seed int64) *Session {
	s := &Session{}
	s.Reset(seed)
	return s
}

// Reset restores the initial state under a new seed.
func (s *Session) Reset(seed int64) {
	s.Seed = seed
	s.Observations = 0
	s.Stage = 0
	s.Resonance = initialResonance
	s.History = nil
	s.rng = rand.New(rand.NewPCG(uint64(seed), sessionStream))
}

func (s *Session) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Observe samples the next observation without changing the session
// counters. Only the session RNG advances.
func (s *Session) Observe(now time.Time) Observation {
	step := s.Observations + 1
	phase := float64(step) / phaseDivisor
	drift := s.uniform(-driftSpan, driftSpan)

	similarity := similarityCenter + similarityAmp*math.Sin(phase+float64(s.Seed)/seedPhaseDivisor) + drift
	similarity = min(similarityMax, max(similarityMin, similarity))

	ambiguity := math.Abs(similarityCenter-similarity) * ambiguityScale
	pressure := (1 - ambiguity) * s.uniform(pressureLow, pressureHigh)
	coherence := similarity*coherenceSimW + (1-ambiguity)*coherenceClarW

	return Observation{
		Timestamp:  now.Format(timestampLayout),
		Step:       step,
		Similarity: similarity,
		Ambiguity:  ambiguity,
		Pressure:   pressure,
		Coherence:  coherence,
	}
}

// ApplyMutation folds obs into the session and returns the event message.
func (s *Session) ApplyMutation(obs Observation) string {
	s.Observations = obs.Step
	s.Resonance = s.Resonance*resonanceKeep + obs.Coherence*resonanceAdopt

	kind := EventHeld
	msg := "phase wavered, structure held"
	switch {
	case obs.Pressure > mutationPressure && s.Stage < maxStage:
		s.Stage++
		kind = EventMutation
		msg = fmt.Sprintf("mutation: advanced to stage %d", s.Stage)
	case obs.Pressure < convergencePressure && s.Stage > 0:
		s.Stage--
		kind = EventConvergence
		msg = fmt.Sprintf("convergence: returned to stage %d", s.Stage)
	}

	ev := Event{
		Observation: obs,
		Kind:        kind,
		Message:     msg,
		Stage:       s.Stage,
		Resonance:   s.Resonance,
	}

	s.History = append([]Event{ev}, s.History...)
	if len(s.History) > historyCap {
		s.History = s.History[:historyCap]
	}
	return msg
}

// Step observes once at now and applies the result.
func (s *Session) Step(now time.Time) Event {
	s.ApplyMutation(s.Observe(now))
	return s.History[0]
}

// RecentHistory returns up to n events, newest first.
func (s *Session) RecentHistory(n int) []Event {
	if n <= 0 || n > len(s.History) {
		n = len(s.History)
	}
	return s.History[:n]
}

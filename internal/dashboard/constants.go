package dashboard

// Gate summary
const (
	// gatePassThreshold is the gate value above which a bin counts as passing.
	gatePassThreshold = 0.5
)

// Session defaults
const (
	initialResonance = 0.35
	maxStage         = 4
	historyCap       = 18

	// RecentHistoryLen is how many events the log view shows.
	RecentHistoryLen = 8
)

// Observation shaping
const (
	phaseDivisor     = 2.4
	driftSpan        = 0.14
	similarityCenter = 0.5
	similarityAmp    = 0.32
	seedPhaseDivisor = 3000.0
	similarityMin    = 0.02
	similarityMax    = 0.98
	ambiguityScale   = 2.0
	pressureLow      = 0.68
	pressureHigh     = 1.28
	coherenceSimW    = 0.6
	coherenceClarW   = 0.4
)

// Mutation thresholds
const (
	resonanceKeep       = 0.58
	resonanceAdopt      = 0.42
	mutationPressure    = 0.64
	convergencePressure = 0.26
)

// Layout
const (
	densityDivisor  = 3.2
	timestampLayout = "15:04:05"
	sessionStream   = 0x2545f4914f6cdd1d
)

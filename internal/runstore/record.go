// Package runstore persists distillation runs as a flat Parquet table.
//
// Each row holds the parameters and metrics of one explicitly saved run.
// The table is append-only; every append rewrites the file through a
// temp file and a rename, so a row is either fully stored or not at all.
package runstore

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 UTC layout used for CreatedAt.
// Fixed width keeps lexical and chronological order identical.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Record is one persisted run.
type Record struct {
	CreatedAt      string  `parquet:"created_at"`
	Seed           int64   `parquet:"seed"`
	Depth          int     `parquet:"depth"`
	Resonance      float64 `parquet:"resonance"`
	Decoherence    float64 `parquet:"decoherence"`
	Iterations     int     `parquet:"iterations"`
	CoherenceRatio float64 `parquet:"coherence_ratio"`
	SpectralFocus  float64 `parquet:"spectral_focus"`
	PhaseStability float64 `parquet:"phase_stability"`
}

// Time parses CreatedAt.
func (r *Record) Time() (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: created_at %q: %w", ErrInvalidRecord, r.CreatedAt, err)
	}
	return ts, nil
}

// FormatTimestamp renders t in TimestampLayout after converting to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

package engine

import "errors"

// Common errors returned by the engine.
var (
	// ErrTooFewPoints indicates a time domain shorter than two samples.
	ErrTooFewPoints = errors.New("too few points")

	// ErrInvalidDepth indicates a non-positive layer count.
	ErrInvalidDepth = errors.New("depth must be at least 1")

	// ErrLengthMismatch indicates signals that should align do not.
	ErrLengthMismatch = errors.New("signal length mismatch")

	// ErrEmptyInput indicates an empty signal or gate.
	ErrEmptyInput = errors.New("empty input")
)

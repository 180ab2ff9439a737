package ranking

import "errors"

var (
	// ErrInvalidWeights is returned when weights are negative or do not sum to 1.0.
	ErrInvalidWeights = errors.New("ranking weights must be non-negative and sum to 1.0")

	// ErrScorerRequired is returned when a Ranker is built without a scorer.
	ErrScorerRequired = errors.New("scorer is required")

	// ErrClockRequired is returned when WithClock is given a nil function.
	ErrClockRequired = errors.New("clock is required")
)

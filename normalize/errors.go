package normalize

import "errors"

var (
	// ErrNoStrategies is returned when an empty strategy chain is configured.
	ErrNoStrategies = errors.New("at least one normalization strategy required")

	// ErrClockRequired is returned when a nil clock is configured.
	ErrClockRequired = errors.New("clock required")
)

package location

import "errors"

var (
	// ErrCacheRequired is returned when WithCache is given a nil cache.
	ErrCacheRequired = errors.New("location cache is required")
)

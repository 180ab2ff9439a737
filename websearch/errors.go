package websearch

import "errors"

var (
	// ErrProviderRequired is returned when a search provider is not provided.
	ErrProviderRequired = errors.New("search provider required")

	// ErrAPIKeyRequired is returned when the Tavily API key is empty.
	ErrAPIKeyRequired = errors.New("tavily API key required")

	// ErrCacheRequired is returned when a nil cache is configured.
	ErrCacheRequired = errors.New("cache required")

	// ErrUnexpectedStatus is returned for a non-2xx provider response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

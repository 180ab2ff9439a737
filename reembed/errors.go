package reembed

import "errors"

var (
	// ErrRepositoryRequired is returned when an event repository is not provided.
	ErrRepositoryRequired = errors.New("event repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)

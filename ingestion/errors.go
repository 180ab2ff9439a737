package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when an event repository is not provided.
	ErrRepositoryRequired = errors.New("event repository required")

	// ErrNormalizerRequired is returned when a normalizer is not provided.
	ErrNormalizerRequired = errors.New("normalizer required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidDimension is returned for a non-positive embedding dimension.
	ErrInvalidDimension = errors.New("embedding dimension must be greater than 0")

	// ErrDimensionMismatch is returned when the embedder produced a vector
	// of the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyEmbedding is returned when the embedder produced no vector.
	ErrEmptyEmbedding = errors.New("empty embedding")
)

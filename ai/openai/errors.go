package openai

import "errors"

var (
	// ErrEmptyResponse is returned when the model returns no choices or vectors.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrDimensionMismatch is returned when an embedding has an unexpected length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

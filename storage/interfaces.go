package storage

import (
	"context"

	"github.com/poiesic/pitchfinder/core"
)

// EventRepository is the vector store for canonical events. Each event is
// stored once by ID together with its embedding, its encoded document and
// flat metadata used for filtering.
// Implementations must be thread-safe and support concurrent access.
type EventRepository interface {
	// Upsert stores event with its vector, replacing any previous version
	// with the same ID. The dedup key index is kept in step.
	Upsert(ctx context.Context, event *core.CanonicalEvent, vector []float32) error

	// Get retrieves an event by ID.
	// Returns ErrNotFound if the event doesn't exist.
	Get(ctx context.Context, id string) (*core.CanonicalEvent, error)

	// FindByKey retrieves the event whose core.DedupKey equals key.
	// Returns ErrNotFound if no event has that key.
	FindByKey(ctx context.Context, key string) (*core.CanonicalEvent, error)

	// Delete removes events by ID.
	// Returns ErrNotFound if any event doesn't exist.
	Delete(ctx context.Context, ids ...string) error

	// Nearest returns up to k events passing filter, ordered by cosine
	// similarity to vector, highest first. Events without a vector are skipped.
	Nearest(ctx context.Context, vector []float32, k int, filter Filter) ([]core.Candidate, error)

	// UpdateVector replaces the stored vector of an event.
	// Returns ErrNotFound if the event doesn't exist.
	UpdateVector(ctx context.Context, id string, vector []float32) error

	// ForEach calls fn for every stored event in key order. Iteration stops
	// at the first error, which is returned.
	ForEach(ctx context.Context, fn func(*core.CanonicalEvent) error) error

	// Count returns the number of stored events.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/pitchfinder/ai"
	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/metrics"
	"github.com/poiesic/pitchfinder/storage"
)

// DefaultDimension matches text-embedding-3-small.
const DefaultDimension = 1536

// EventEmbedder produces unit-length event vectors of a fixed dimension.
// When the embedder fails the zero vector is returned instead, so the event
// can still be stored; it then has similarity 0 to every query.
type EventEmbedder struct {
	embedder  ai.Embedder
	dimension int
	now       func() time.Time
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// EmbedderOption configures an EventEmbedder.
type EmbedderOption func(*EventEmbedder) error

// WithDimension sets the vector length. Default is DefaultDimension.
func WithDimension(dim int) EmbedderOption {
	return func(e *EventEmbedder) error {
		if dim < 1 {
			return ErrInvalidDimension
		}
		e.dimension = dim
		return nil
	}
}

// WithEmbedderClock sets the clock used to date synthetic query events.
func WithEmbedderClock(now func() time.Time) EmbedderOption {
	return func(e *EventEmbedder) error {
		if now != nil {
			e.now = now
		}
		return nil
	}
}

// WithEmbedderMetrics enables instrumentation.
func WithEmbedderMetrics(m *metrics.Metrics) EmbedderOption {
	return func(e *EventEmbedder) error {
		e.metrics = m
		return nil
	}
}

// WithEmbedderLogger sets a custom logger.
func WithEmbedderLogger(logger *slog.Logger) EmbedderOption {
	return func(e *EventEmbedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "event-embedder")
		return nil
	}
}

// NewEventEmbedder wraps embedder.
func NewEventEmbedder(embedder ai.Embedder, opts ...EmbedderOption) (*EventEmbedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	e := &EventEmbedder{
		embedder:  embedder,
		dimension: DefaultDimension,
		now:       time.Now,
		logger:    slog.Default().With("component", "event-embedder"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Dimension returns the configured vector length.
func (e *EventEmbedder) Dimension() int {
	return e.dimension
}

// Embed returns the normalized embedding of EmbeddingText(event).
func (e *EventEmbedder) Embed(ctx context.Context, event *core.CanonicalEvent) ai.Result[[]float32] {
	return e.embed(ctx, EmbeddingText(event), "title", event.Title)
}

// EmbedQuery embeds a query the way events are embedded, through a
// synthetic online event whose title and description are the query intent.
func (e *EventEmbedder) EmbedQuery(ctx context.Context, query *core.SearchQuery) ai.Result[[]float32] {
	return e.Embed(ctx, queryEvent(query, e.now().UTC()))
}

// EmbedTexts embeds a batch and normalizes every vector. Unlike Embed it
// returns the error so batch callers can retry.
func (e *EventEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(vectors))
	}
	for i, v := range vectors {
		if err := e.check(v); err != nil {
			return nil, err
		}
		vectors[i] = storage.NormalizeVector(v)
	}
	return vectors, nil
}

func (e *EventEmbedder) embed(ctx context.Context, text string, logArgs ...any) ai.Result[[]float32] {
	v, err := e.embedder.EmbedText(ctx, text)
	if err == nil {
		err = e.check(v)
	}
	if err != nil {
		e.metrics.IncEmbeddingFallback()
		e.logger.Warn("embedding failed, using zero vector", append(logArgs, "error", err)...)
		return ai.Fallback(make([]float32, e.dimension), err)
	}
	return ai.Ok(storage.NormalizeVector(v))
}

func (e *EventEmbedder) check(v []float32) error {
	if len(v) == 0 {
		return ErrEmptyEmbedding
	}
	if len(v) != e.dimension {
		return fmt.Errorf("%w: expected %d, received %d", ErrDimensionMismatch, e.dimension, len(v))
	}
	return nil
}

func queryEvent(query *core.SearchQuery, now time.Time) *core.CanonicalEvent {
	event := core.NewEvent(query.Intent, now)
	event.Description = query.Intent
	event.Venue = core.Venue{Type: core.VenueOnline}
	event.Registration.Type = core.RegistrationFree
	event.Organizer.Name = ""
	event.StartUTC = now
	if query.DateFrom != nil {
		event.StartUTC = query.DateFrom.UTC()
	}
	event.EndUTC = now
	if query.DateTo != nil {
		event.EndUTC = query.DateTo.UTC()
	}
	return event
}

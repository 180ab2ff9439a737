package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/ingestion"
	"github.com/poiesic/pitchfinder/retry"
	"github.com/poiesic/pitchfinder/storage"
)

// BatchProcessor re-embeds batches of events.
type BatchProcessor struct {
	repo           storage.EventRepository
	embedder       *ingestion.EventEmbedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.EventRepository, embedder *ingestion.EventEmbedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the events' text and writes the normalized vectors back.
func (bp *BatchProcessor) Process(ctx context.Context, events []*core.CanonicalEvent) error {
	if len(events) == 0 {
		return nil
	}

	texts := make([]string, len(events))
	for i, event := range events {
		texts[i] = ingestion.EmbeddingText(event)
	}

	var vectors [][]float32
	err := retry.RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	for i, event := range events {
		if err := bp.repo.UpdateVector(ctx, event.ID, vectors[i]); err != nil {
			return fmt.Errorf("failed to update event %s: %w", event.ID, err)
		}
	}

	return nil
}

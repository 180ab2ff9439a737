// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/ingestion"
	"github.com/poiesic/pitchfinder/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of events to embed in each call
	BatchSize int `koanf:"batch_size"`

	// ReportInterval is how often to report progress (number of events)
	ReportInterval int `koanf:"report_interval"`

	// MaxRetries is the maximum number of attempts for each batch
	MaxRetries int `koanf:"max_retries"`

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of all events in a repository.
type Reembedder struct {
	repo      storage.EventRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *EventIterator
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.EventRepository, embedder *ingestion.EventEmbedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewEventIterator(repo, config.BatchSize),
		logger:    slog.Default().With("component", "reembed"),
	}, nil
}

// Run re-embeds every stored event. It stops at the first batch that still
// fails after the retries; batches already written keep their new vectors.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No events found in database (0 events)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d events (batch size: %d)\n",
		total, r.config.BatchSize)
	r.logger.Info("reembedding events", "total", total, "batchSize", r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(events []*core.CanonicalEvent) error {
		if err := r.processor.Process(ctx, events); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(events)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		r.logger.Error("reembedding stopped", "processed", processed, "total", total, "error", err)
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d events in %v (%.1f events/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return nil
}

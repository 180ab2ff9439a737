package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/normalize"
	"github.com/poiesic/pitchfinder/storage"
)

// Pipeline normalizes, embeds and stores events.
type Pipeline struct {
	repository storage.EventRepository
	normalizer *normalize.Normalizer
	embedder   *EventEmbedder
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.EventRepository,
	normalizer *normalize.Normalizer,
	embedder *EventEmbedder,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		normalizer: normalizer,
		embedder:   embedder,
		pool:       pool,
		logger:     slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

type item struct {
	input  normalize.Input
	source string
}

// Ingest normalizes inputs reported by source and stores the resulting
// events. It returns the stored events in the order of the inputs that
// produced them; inputs that merge into the same event yield it once.
// Inputs that do not normalize and events the store rejects are logged and
// skipped. The only error returned is ctx's.
func (p *Pipeline) Ingest(ctx context.Context, source string, inputs ...normalize.Input) ([]*core.CanonicalEvent, error) {
	items := make([]item, len(inputs))
	for i, in := range inputs {
		items[i] = item{input: in, source: source}
	}
	return p.ingest(ctx, items)
}

// IngestHits ingests web search hits, each under its own source.
func (p *Pipeline) IngestHits(ctx context.Context, hits ...core.RawHit) ([]*core.CanonicalEvent, error) {
	items := make([]item, len(hits))
	for i, hit := range hits {
		items[i] = item{input: normalize.FromHit(hit), source: hit.Source}
	}
	return p.ingest(ctx, items)
}

func (p *Pipeline) ingest(ctx context.Context, items []item) ([]*core.CanonicalEvent, error) {
	if len(items) == 0 {
		return nil, nil
	}

	normalized := make([]*core.CanonicalEvent, len(items))
	p.parallel(len(items), func(i int) {
		normalized[i] = p.normalizer.Normalize(items[i].input, items[i].source)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := p.merge(ctx, normalized)

	vectors := make([][]float32, len(events))
	p.parallel(len(events), func(i int) {
		events[i].ShortSummary = Summarize(events[i])
		events[i].EmbeddingID = events[i].ID
		vectors[i] = p.embedder.Embed(ctx, events[i]).Value
	})

	stored := make([]*core.CanonicalEvent, 0, len(events))
	for i, event := range events {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if err := p.repository.Upsert(ctx, event, vectors[i]); err != nil {
			p.logger.Warn("failed to store event", "id", event.ID, "title", event.Title, "error", err)
			continue
		}
		stored = append(stored, event)
	}

	p.logger.Info("ingested events", "inputs", len(items), "stored", len(stored))
	return stored, nil
}

// merge collapses events sharing a dedup key, both within the batch and
// against the store, keeping first-seen order.
func (p *Pipeline) merge(ctx context.Context, normalized []*core.CanonicalEvent) []*core.CanonicalEvent {
	byKey := make(map[string]*core.CanonicalEvent)
	var events []*core.CanonicalEvent

	for _, event := range normalized {
		if event == nil {
			continue
		}
		key := core.DedupKey(event)

		if existing, ok := byKey[key]; ok {
			core.MergeSources(existing, event)
			continue
		}

		existing, err := p.repository.FindByKey(ctx, key)
		switch {
		case err == nil:
			p.logger.Debug("merging with stored event", "id", existing.ID, "key", key)
			event = core.MergeSources(existing, event)
		case !errors.Is(err, storage.ErrNotFound):
			p.logger.Warn("dedup lookup failed, storing as new event", "key", key, "error", err)
		}

		byKey[key] = event
		events = append(events, event)
	}
	return events
}

// parallel runs fn for 0..n-1 on the pool and waits. Tasks the pool rejects
// run inline.
func (p *Pipeline) parallel(n int, fn func(i int)) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if err := p.pool.Submit(task); err != nil {
			p.logger.Debug("pool rejected task, running inline", "error", err)
			task()
		}
	}
	wg.Wait()
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

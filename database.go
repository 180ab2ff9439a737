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


package pitchfinder

import (
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/pitchfinder/ai"
	"github.com/poiesic/pitchfinder/ai/openai"
	"github.com/poiesic/pitchfinder/ingestion"
	"github.com/poiesic/pitchfinder/location"
	"github.com/poiesic/pitchfinder/metrics"
	"github.com/poiesic/pitchfinder/normalize"
	"github.com/poiesic/pitchfinder/ranking"
	"github.com/poiesic/pitchfinder/reembed"
	"github.com/poiesic/pitchfinder/search"
	"github.com/poiesic/pitchfinder/storage"
	"github.com/poiesic/pitchfinder/storage/badger"
)

// Database owns the event store and the AI provider, and builds the
// components that share them.
type Database struct {
	backend       *badger.Backend
	eventRepo     storage.EventRepository
	provider      ai.AIProvider
	aiConfig      *ai.Config
	metrics       *metrics.Metrics
	locationCache *location.Cache
	weights       ranking.Weights
	poolSize      int
	now           func() time.Time
	logger        *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	metrics  *metrics.Metrics
	weights  ranking.Weights
	poolSize int
	now      func() time.Time
	inMemory bool
}

// WithAIConfig sets the configuration used to build the OpenAI provider.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithAIProvider uses provider instead of building an OpenAI one. The
// Database takes ownership and closes it.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithMetrics instruments every component the Database builds.
func WithMetrics(m *metrics.Metrics) DatabaseOption {
	return func(o *databaseOptions) {
		o.metrics = m
	}
}

// WithWeights sets the ranking weights.
func WithWeights(w ranking.Weights) DatabaseOption {
	return func(o *databaseOptions) {
		o.weights = w
	}
}

// WithPoolSize sets the worker pool size of ingestion pipelines and rankers.
// Zero keeps their defaults.
func WithPoolSize(size int) DatabaseOption {
	return func(o *databaseOptions) {
		o.poolSize = size
	}
}

// WithClock sets the time source for normalization, embedding and scoring.
func WithClock(now func() time.Time) DatabaseOption {
	return func(o *databaseOptions) {
		o.now = now
	}
}

// InMemory keeps the store in memory; the path is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		weights:  ranking.DefaultWeights(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.weights.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	eventRepo := badger.NewEventRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:       backend,
		eventRepo:     eventRepo,
		provider:      provider,
		aiConfig:      options.aiConfig,
		metrics:       options.metrics,
		locationCache: location.NewCache(),
		weights:       options.weights,
		poolSize:      options.poolSize,
		now:           options.now,
		logger:        slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.eventRepo.Close(); err != nil {
		db.logger.Error("error closing event repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) EventRepository() storage.EventRepository {
	return db.eventRepo
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewNormalizer builds a normalizer on the database clock and metrics.
func (db *Database) NewNormalizer(opts ...normalize.Option) (*normalize.Normalizer, error) {
	base := []normalize.Option{
		normalize.WithClock(db.now),
		normalize.WithMetrics(db.metrics),
	}
	return normalize.New(append(base, opts...)...)
}

// NewEventEmbedder wraps the provider's embedder, sized to the configured
// dimension.
func (db *Database) NewEventEmbedder(opts ...ingestion.EmbedderOption) (*ingestion.EventEmbedder, error) {
	base := []ingestion.EmbedderOption{
		ingestion.WithDimension(db.aiConfig.Dimension),
		ingestion.WithEmbedderClock(db.now),
		ingestion.WithEmbedderMetrics(db.metrics),
	}
	return ingestion.NewEventEmbedder(db.provider.Embedder(), append(base, opts...)...)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	normalizer, err := db.NewNormalizer()
	if err != nil {
		return nil, err
	}
	embedder, err := db.NewEventEmbedder()
	if err != nil {
		return nil, err
	}
	var base []ingestion.Option
	if db.poolSize > 0 {
		base = append(base, ingestion.WithPoolSize(db.poolSize))
	}
	return ingestion.NewPipeline(db.eventRepo, normalizer, embedder, append(base, opts...)...)
}

// NewLocationMatcher builds a matcher on the provider's judge. Matchers
// built by the same Database share one answer cache.
func (db *Database) NewLocationMatcher(opts ...location.Option) (*location.Matcher, error) {
	base := []location.Option{
		location.WithJudge(db.provider.Judge()),
		location.WithCache(db.locationCache),
		location.WithMetrics(db.metrics),
	}
	return location.NewMatcher(append(base, opts...)...)
}

func (db *Database) NewRanker(opts ...ranking.RankerOption) (*ranking.Ranker, error) {
	matcher, err := db.NewLocationMatcher()
	if err != nil {
		return nil, err
	}
	scorer, err := ranking.NewScorer(
		ranking.WithWeights(db.weights),
		ranking.WithLocationMatcher(matcher),
		ranking.WithClock(db.now),
	)
	if err != nil {
		return nil, err
	}
	base := []ranking.RankerOption{ranking.WithMetrics(db.metrics)}
	if db.poolSize > 0 {
		base = append(base, ranking.WithPoolSize(db.poolSize))
	}
	return ranking.NewRanker(scorer, append(base, opts...)...)
}

// NewFinder assembles the full search pipeline. Without
// search.WithWebSearcher it ranks stored events only. The caller must
// Release the returned Finder.
func (db *Database) NewFinder(opts ...search.Option) (*Finder, error) {
	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	embedder, err := db.NewEventEmbedder()
	if err != nil {
		pipeline.Release()
		return nil, err
	}
	ranker, err := db.NewRanker()
	if err != nil {
		pipeline.Release()
		return nil, err
	}
	finder, err := search.NewFinder(db.eventRepo, pipeline, embedder, ranker, opts...)
	if err != nil {
		ranker.Release()
		pipeline.Release()
		return nil, err
	}
	return &Finder{Finder: finder, pipeline: pipeline, ranker: ranker}, nil
}

func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	embedder, err := db.NewEventEmbedder()
	if err != nil {
		return nil, err
	}
	return reembed.NewReembedder(db.eventRepo, embedder, config, progress)
}

// Finder is a search.Finder that owns its worker pools.
type Finder struct {
	*search.Finder
	pipeline *ingestion.Pipeline
	ranker   *ranking.Ranker
}

// Release frees the pools.
func (f *Finder) Release() {
	f.pipeline.Release()
	f.ranker.Release()
}

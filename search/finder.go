package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/extract"
	"github.com/poiesic/pitchfinder/ingestion"
	"github.com/poiesic/pitchfinder/ranking"
	"github.com/poiesic/pitchfinder/storage"
)

const (
	// DefaultIngestLimit is how many web hits are ingested per search.
	DefaultIngestLimit = 10

	// DefaultCandidateLimit is how many stored events are ranked per search.
	DefaultCandidateLimit = 20
)

// WebSearcher finds raw hits for a query. It reports failure as an empty
// result.
type WebSearcher interface {
	Search(ctx context.Context, query *core.SearchQuery) []core.RawHit
}

// Finder answers pitch event searches.
type Finder struct {
	repository     storage.EventRepository
	pipeline       *ingestion.Pipeline
	embedder       *ingestion.EventEmbedder
	ranker         *ranking.Ranker
	web            WebSearcher
	ingestLimit    int
	candidateLimit int
	logger         *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder) error

// WithWebSearcher enables the web step. Without one Find behaves like
// FindStored.
func WithWebSearcher(web WebSearcher) Option {
	return func(f *Finder) error {
		f.web = web
		return nil
	}
}

// WithIngestLimit caps the web hits ingested per search.
// Default is DefaultIngestLimit.
func WithIngestLimit(n int) Option {
	return func(f *Finder) error {
		if n < 1 {
			n = DefaultIngestLimit
		}
		f.ingestLimit = n
		return nil
	}
}

// WithCandidateLimit caps the stored events ranked per search.
// Default is DefaultCandidateLimit.
func WithCandidateLimit(n int) Option {
	return func(f *Finder) error {
		if n < 1 {
			n = DefaultCandidateLimit
		}
		f.candidateLimit = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger.With("component", "finder")
		return nil
	}
}

// NewFinder creates a new finder.
func NewFinder(
	repository storage.EventRepository,
	pipeline *ingestion.Pipeline,
	embedder *ingestion.EventEmbedder,
	ranker *ranking.Ranker,
	opts ...Option,
) (*Finder, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if ranker == nil {
		return nil, ErrRankerRequired
	}

	f := &Finder{
		repository:     repository,
		pipeline:       pipeline,
		embedder:       embedder,
		ranker:         ranker,
		ingestLimit:    DefaultIngestLimit,
		candidateLimit: DefaultCandidateLimit,
		logger:         slog.Default().With("component", "finder"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Find searches the web, ingests the first hits and ranks the stored events
// nearest to the query. It returns at most query.Limit() events.
func (f *Finder) Find(ctx context.Context, query *core.SearchQuery) ([]core.RankedEvent, error) {
	return f.FindWithMonitor(ctx, query, nil)
}

// FindStored ranks already stored events without searching the web.
func (f *Finder) FindStored(ctx context.Context, query *core.SearchQuery) ([]core.RankedEvent, error) {
	return f.find(ctx, query, false, nil)
}

// FindWithMonitor is Find with a monitor receiving callbacks at each stage.
func (f *Finder) FindWithMonitor(ctx context.Context, query *core.SearchQuery, monitor Monitor) ([]core.RankedEvent, error) {
	return f.find(ctx, query, f.web != nil, monitor)
}

func (f *Finder) find(ctx context.Context, query *core.SearchQuery, useWeb bool, monitor Monitor) ([]core.RankedEvent, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Discover and ingest
	if useWeb {
		hits := f.web.Search(ctx, query)
		monitor.AfterWebSearch(hits)

		if len(hits) > f.ingestLimit {
			hits = hits[:f.ingestLimit]
		}
		events, err := f.pipeline.IngestHits(ctx, hits...)
		if err != nil {
			return nil, err
		}
		monitor.AfterIngest(events)
	}

	// 2. Embed the query
	embedded := f.embedder.EmbedQuery(ctx, query)
	monitor.AfterQueryEmbedding(embedded.Degraded)
	if embedded.Degraded {
		f.logger.Warn("query embedding degraded, ranking without semantic similarity", "error", embedded.Err)
	}

	// 3. Retrieve
	candidates, err := f.repository.Nearest(ctx, embedded.Value, f.candidateLimit, filterFor(query))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger.Warn("candidate retrieval failed", "error", err)
		candidates = nil
	}
	monitor.AfterRetrieval(candidates)

	// 4. Rank, then apply the caller-side filters and cap
	ranked := f.ranker.Rank(ctx, query, candidates)
	results := make([]core.RankedEvent, 0, min(len(ranked), query.Limit()))
	for _, r := range ranked {
		if !withinDates(query, r.Event) {
			continue
		}
		results = append(results, r)
		if len(results) == query.Limit() {
			break
		}
	}

	monitor.Finish(results)
	f.logger.Info("search complete",
		"intent", query.Intent,
		"candidates", len(candidates),
		"results", len(results))
	return results, nil
}

// filterFor restricts retrieval to active events, or to events with pitch
// slots for pitch-only queries. Online-only queries also require an online
// venue.
func filterFor(query *core.SearchQuery) storage.Filter {
	var filter storage.Filter
	if query.PitchOnly {
		yes := true
		filter.HasPitchSlots = &yes
	} else {
		filter.Status = core.StatusActive
	}
	if query.OnlineOnly {
		filter.VenueType = core.VenueOnline
	}
	return filter
}

// withinDates reports whether the event starts inside the query's date range.
// Events whose date was guessed are always kept.
func withinDates(query *core.SearchQuery, event *core.CanonicalEvent) bool {
	if event.HasTag(extract.TagDateUncertain) {
		return true
	}
	if query.DateFrom != nil && event.StartUTC.Before(query.DateFrom.UTC()) {
		return false
	}
	if query.DateTo != nil && event.StartUTC.After(query.DateTo.UTC()) {
		return false
	}
	return true
}

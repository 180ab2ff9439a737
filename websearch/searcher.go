package websearch

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/metrics"
	"github.com/poiesic/pitchfinder/retry"
)

const (
	// DefaultMaxResults caps the hits of one search.
	DefaultMaxResults = 50

	defaultAttempts  = 3
	defaultBaseDelay = 2 * time.Second
)

// Searcher runs web searches for pitch events.
type Searcher struct {
	provider   Provider
	cache      Cache
	ttl        time.Duration
	maxResults int
	domains    []string
	attempts   int
	baseDelay  time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithCache caches hits for ttl. A ttl <= 0 uses DefaultCacheTTL.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Searcher) error {
		if cache == nil {
			return ErrCacheRequired
		}
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		s.cache = cache
		s.ttl = ttl
		return nil
	}
}

// WithMaxResults caps the number of hits. Default is DefaultMaxResults.
func WithMaxResults(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			n = DefaultMaxResults
		}
		s.maxResults = n
		return nil
	}
}

// WithDomains replaces the domain allowlist. An empty list searches the
// whole web.
func WithDomains(domains ...string) Option {
	return func(s *Searcher) error {
		s.domains = domains
		return nil
	}
}

// WithRetry sets the attempt count and the first backoff delay.
// Default is 3 attempts starting at 2s.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(s *Searcher) error {
		if attempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		s.attempts = attempts
		s.baseDelay = baseDelay
		return nil
	}
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Searcher) error {
		s.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "websearch")
		return nil
	}
}

// NewSearcher creates a searcher over provider.
func NewSearcher(provider Provider, opts ...Option) (*Searcher, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	s := &Searcher{
		provider:   provider,
		maxResults: DefaultMaxResults,
		domains:    DefaultDomains,
		attempts:   defaultAttempts,
		baseDelay:  defaultBaseDelay,
		logger:     slog.Default().With("component", "websearch"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Request builds the provider request for q.
func (s *Searcher) Request(q *core.SearchQuery) Request {
	return Request{
		Query:          EnhanceQuery(q),
		SearchDepth:    searchDepth,
		MaxResults:     s.maxResults,
		IncludeDomains: s.domains,
	}
}

// Search returns de-duplicated hits for q, at most the configured maximum.
// It never fails: when the provider still errors after the retries, or ctx
// ends, the result is empty.
func (s *Searcher) Search(ctx context.Context, q *core.SearchQuery) []core.RawHit {
	req := s.Request(q)
	key := CacheKey(req)

	if s.cache != nil {
		hits, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("search cache read failed", "error", err)
		} else if ok {
			s.logger.Debug("search cache hit", "query", req.Query, "hits", len(hits))
			return hits
		}
	}

	s.logger.Info("searching", "query", req.Query)

	var hits []core.RawHit
	err := retry.RetryWithBackoff(ctx, func() error {
		var err error
		hits, err = s.provider.Search(ctx, req)
		return err
	}, s.attempts, s.baseDelay)
	if err != nil {
		s.metrics.IncSearchFailure()
		s.logger.Warn("web search failed, continuing without results", "query", req.Query, "error", err)
		return nil
	}

	hits = dedupeByURL(hits)
	if len(hits) > s.maxResults {
		hits = hits[:s.maxResults]
	}
	s.metrics.AddSearchHits(len(hits))
	s.logger.Info("search complete", "hits", len(hits))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, hits, s.ttl); err != nil {
			s.logger.Warn("search cache write failed", "error", err)
		}
	}
	return hits
}

// dedupeByURL keeps the first hit for each URL and drops hits without one.
func dedupeByURL(hits []core.RawHit) []core.RawHit {
	seen := make(map[string]struct{}, len(hits))
	unique := make([]core.RawHit, 0, len(hits))
	for _, hit := range hits {
		if hit.URL == "" {
			continue
		}
		if _, ok := seen[hit.URL]; ok {
			continue
		}
		seen[hit.URL] = struct{}{}
		unique = append(unique, hit)
	}
	return unique
}

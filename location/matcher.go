package location

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/pitchfinder/ai"
	"github.com/poiesic/pitchfinder/metrics"
	"golang.org/x/sync/singleflight"
)

// Matcher answers location questions through a judge with a cached,
// substring-based fallback. Safe for concurrent use.
type Matcher struct {
	judge   ai.Judge
	cache   *Cache
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithJudge sets the semantic collaborator. Without one every lookup runs in
// degraded mode.
func WithJudge(judge ai.Judge) Option {
	return func(m *Matcher) error {
		m.judge = judge
		return nil
	}
}

// WithCache shares an existing cache. Default is a fresh cache per Matcher.
func WithCache(cache *Cache) Option {
	return func(m *Matcher) error {
		if cache == nil {
			return ErrCacheRequired
		}
		m.cache = cache
		return nil
	}
}

// WithMetrics enables instrumentation.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Matcher) error {
		m.metrics = mt
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger.With("component", "location-matcher")
		return nil
	}
}

// NewMatcher creates a matcher.
func NewMatcher(opts ...Option) (*Matcher, error) {
	m := &Matcher{
		cache:  NewCache(),
		logger: slog.Default().With("component", "location-matcher"),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Cache returns the matcher's cache.
func (m *Matcher) Cache() *Cache {
	return m.cache
}

// Matches reports whether query names a place matching the event's city or
// country. See Match for the degraded-mode details.
func (m *Matcher) Matches(ctx context.Context, query, city, country string) bool {
	return m.Match(ctx, query, city, country).Value
}

// Match answers whether query matches the event location. The result is
// Degraded when the answer came from the substring fallback. Answers are
// cached whichever path produced them, so the judge is asked about a given
// triple at most once.
//
// An empty query, or an event with neither city nor country, never matches.
func (m *Matcher) Match(ctx context.Context, query, city, country string) ai.Result[bool] {
	query = strings.TrimSpace(query)
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if query == "" {
		return ai.Ok(false)
	}

	key := NewKey(query, city, country)
	if r, ok := m.cache.Get(key); ok {
		m.metrics.IncLocationLookup(metrics.LookupCache)
		m.logger.Debug("location cache hit", "query", key.Query, "city", key.City, "country", key.Country)
		return r
	}

	v, _, _ := m.group.Do(key.String(), func() (any, error) {
		// A concurrent caller may have filled the entry while we waited.
		if r, ok := m.cache.Get(key); ok {
			return r, nil
		}
		r := m.lookup(ctx, query, city, country)
		m.cache.Put(key, r)
		return r, nil
	})
	return v.(ai.Result[bool])
}

func (m *Matcher) lookup(ctx context.Context, query, city, country string) ai.Result[bool] {
	var parts []string
	if city != "" {
		parts = append(parts, city)
	}
	if country != "" {
		parts = append(parts, country)
	}
	if len(parts) == 0 {
		m.metrics.IncLocationLookup(metrics.LookupSemantic)
		return ai.Ok(false)
	}
	eventLocation := strings.Join(parts, ", ")

	if m.judge == nil {
		m.metrics.IncLocationLookup(metrics.LookupDegraded)
		return ai.Fallback(SubstringMatch(query, city, country), nil)
	}

	yes, err := m.judge.YesNo(ctx, systemPrompt, matchQuestion(query, eventLocation))
	if err != nil {
		m.logger.Warn("semantic location match failed, falling back to substring match",
			"query", query,
			"location", eventLocation,
			"error", err)
		m.metrics.IncLocationLookup(metrics.LookupDegraded)
		return ai.Fallback(SubstringMatch(query, city, country), err)
	}

	m.metrics.IncLocationLookup(metrics.LookupSemantic)
	m.logger.Info("semantic location match", "query", query, "location", eventLocation, "match", yes)
	return ai.Ok(yes)
}

// SubstringMatch is the degraded matcher: the lowercased query must appear
// inside the city or the country.
func SubstringMatch(query, city, country string) bool {
	q := normalize(query)
	if q == "" {
		return false
	}
	if c := normalize(city); c != "" && strings.Contains(c, q) {
		return true
	}
	if c := normalize(country); c != "" && strings.Contains(c, q) {
		return true
	}
	return false
}

package websearch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/metrics"
	"github.com/poiesic/pitchfinder/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu       sync.Mutex
	calls    int
	requests []Request
	fn       func(call int) ([]core.RawHit, error)
}

func (p *stubProvider) Search(_ context.Context, req Request) ([]core.RawHit, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	return p.fn(call)
}

func hitsProvider(hits ...core.RawHit) *stubProvider {
	return &stubProvider{fn: func(int) ([]core.RawHit, error) { return hits, nil }}
}

func newTestSearcher(t *testing.T, p Provider, opts ...Option) *Searcher {
	t.Helper()
	opts = append([]Option{WithRetry(3, time.Millisecond)}, opts...)
	s, err := NewSearcher(p, opts...)
	require.NoError(t, err)
	return s
}

func TestSearcher_DedupesByURL(t *testing.T) {
	p := hitsProvider(
		core.RawHit{Title: "A", URL: "https://lu.ma/a"},
		core.RawHit{Title: "no url"},
		core.RawHit{Title: "A again", URL: "https://lu.ma/a"},
		core.RawHit{Title: "B", URL: "https://lu.ma/b"},
	)
	s := newTestSearcher(t, p)

	hits := s.Search(context.Background(), &core.SearchQuery{Intent: "pitch", Location: "Berlin"})
	require.Len(t, hits, 2)
	assert.Equal(t, "A", hits[0].Title)
	assert.Equal(t, "B", hits[1].Title)

	require.Len(t, p.requests, 1)
	req := p.requests[0]
	assert.Equal(t, "pitch in Berlin (startup pitch OR pitch event OR demo day)", req.Query)
	assert.Equal(t, "advanced", req.SearchDepth)
	assert.Equal(t, DefaultMaxResults, req.MaxResults)
	assert.Equal(t, DefaultDomains, req.IncludeDomains)
}

func TestSearcher_CapsResults(t *testing.T) {
	p := hitsProvider(
		core.RawHit{URL: "https://a"},
		core.RawHit{URL: "https://b"},
		core.RawHit{URL: "https://c"},
	)
	s := newTestSearcher(t, p, WithMaxResults(2), WithDomains())

	hits := s.Search(context.Background(), &core.SearchQuery{Intent: "pitch"})
	assert.Len(t, hits, 2)
	assert.Equal(t, 2, p.requests[0].MaxResults)
	assert.Empty(t, p.requests[0].IncludeDomains)
}

func TestSearcher_RetriesThenSucceeds(t *testing.T) {
	p := &stubProvider{fn: func(call int) ([]core.RawHit, error) {
		if call < 3 {
			return nil, errors.New("timeout")
		}
		return []core.RawHit{{URL: "https://a"}}, nil
	}}
	s := newTestSearcher(t, p)

	hits := s.Search(context.Background(), &core.SearchQuery{Intent: "pitch"})
	assert.Len(t, hits, 1)
	assert.Equal(t, 3, p.calls)
}

func TestSearcher_DegradesToEmpty(t *testing.T) {
	mt := metrics.NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, mt.Register(reg))

	p := &stubProvider{fn: func(int) ([]core.RawHit, error) { return nil, errors.New("down") }}
	s := newTestSearcher(t, p, WithMetrics(mt))

	hits := s.Search(context.Background(), &core.SearchQuery{Intent: "pitch"})
	assert.Empty(t, hits)
	assert.Equal(t, 3, p.calls)

	expected := `
# HELP pitchfinder_search_failures_total Total number of web searches that degraded to no results
# TYPE pitchfinder_search_failures_total counter
pitchfinder_search_failures_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), metrics.MetricSearchFailuresTotal))
}

func TestSearcher_PermanentErrorNotRetried(t *testing.T) {
	p := &stubProvider{fn: func(int) ([]core.RawHit, error) {
		return nil, retry.Permanent(ErrUnexpectedStatus)
	}}
	s := newTestSearcher(t, p)

	assert.Empty(t, s.Search(context.Background(), &core.SearchQuery{Intent: "pitch"}))
	assert.Equal(t, 1, p.calls)
}

func TestSearcher_UsesCache(t *testing.T) {
	_, cache := setupTestRedis(t)
	p := hitsProvider(core.RawHit{Title: "A", URL: "https://a"})
	s := newTestSearcher(t, p, WithCache(cache, time.Minute))
	ctx := context.Background()
	q := &core.SearchQuery{Intent: "pitch"}

	first := s.Search(ctx, q)
	second := s.Search(ctx, q)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)

	s.Search(ctx, &core.SearchQuery{Intent: "demo"})
	assert.Equal(t, 2, p.calls)
}

func TestSearcher_FailuresAreNotCached(t *testing.T) {
	_, cache := setupTestRedis(t)
	p := &stubProvider{fn: func(call int) ([]core.RawHit, error) {
		if call == 1 {
			return nil, retry.Permanent(errors.New("bad key"))
		}
		return []core.RawHit{{URL: "https://a"}}, nil
	}}
	s := newTestSearcher(t, p, WithCache(cache, time.Minute))
	q := &core.SearchQuery{Intent: "pitch"}

	assert.Empty(t, s.Search(context.Background(), q))
	assert.Len(t, s.Search(context.Background(), q), 1)
}

func TestSearcher_CacheErrorsFallThrough(t *testing.T) {
	mr, cache := setupTestRedis(t)
	mr.Close()

	p := hitsProvider(core.RawHit{URL: "https://a"})
	s := newTestSearcher(t, p, WithCache(cache, time.Minute))

	assert.Len(t, s.Search(context.Background(), &core.SearchQuery{Intent: "pitch"}), 1)
}

func TestNewSearcher_Validation(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewSearcher(hitsProvider(), WithCache(nil, time.Minute))
	assert.ErrorIs(t, err, ErrCacheRequired)

	_, err = NewSearcher(hitsProvider(), WithRetry(0, time.Second))
	assert.ErrorIs(t, err, retry.ErrInvalidMaxAttempts)
}

package ranking

import (
	"cmp"
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/metrics"
)

// Ranker orders stored candidates by relevance to a query.
type Ranker struct {
	scorer  *Scorer
	pool    *ants.Pool
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker) error

// WithPoolSize sets the number of workers scoring candidates concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) RankerOption {
	return func(r *Ranker) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) RankerOption {
	return func(r *Ranker) error {
		r.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RankerOption {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "ranker")
		return nil
	}
}

// NewRanker creates a ranker around scorer.
func NewRanker(scorer *Scorer, opts ...RankerOption) (*Ranker, error) {
	if scorer == nil {
		return nil, ErrScorerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Ranker{
		scorer: scorer,
		pool:   pool,
		logger: slog.Default().With("component", "ranker"),
	}
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	return r, nil
}

// Rank decodes each candidate's document, scores it and returns the ranked
// events, highest score first. Equal scores keep the candidates' input
// order. Candidates whose document cannot be decoded are logged and skipped.
// Rank neither filters nor truncates; that is up to the caller.
func (r *Ranker) Rank(ctx context.Context, query *core.SearchQuery, candidates []core.Candidate) []core.RankedEvent {
	start := time.Now()
	scored := make([]*core.RankedEvent, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			scored[i] = r.rankOne(ctx, query, candidates[i])
		}
		if err := r.pool.Submit(task); err != nil {
			r.logger.Debug("pool rejected task, scoring inline", "error", err)
			task()
		}
	}
	wg.Wait()

	ranked := make([]core.RankedEvent, 0, len(candidates))
	for _, re := range scored {
		if re != nil {
			ranked = append(ranked, *re)
		}
	}
	slices.SortStableFunc(ranked, func(a, b core.RankedEvent) int {
		return cmp.Compare(b.Score, a.Score)
	})

	elapsed := time.Since(start)
	r.metrics.ObserveRanking(elapsed)
	r.logger.Info("ranked events", "count", len(ranked), "candidates", len(candidates), "elapsed", elapsed)
	return ranked
}

func (r *Ranker) rankOne(ctx context.Context, query *core.SearchQuery, c core.Candidate) *core.RankedEvent {
	event, err := core.DecodeEvent(c.Document)
	if err != nil {
		r.logger.Warn("skipping undecodable candidate", "id", c.ID, "error", err)
		return nil
	}

	s := r.scorer.Score(ctx, query, event, c.Similarity)
	return &core.RankedEvent{
		Event:        event,
		Score:        s.Total,
		Explanation:  s.Explanation,
		MatchFactors: s.Components,
	}
}

// Release frees the worker pool. The ranker must not be used afterwards.
func (r *Ranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Package metrics provides Prometheus instrumentation for the normalization,
// location, embedding, search and ranking stages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricNormalizationsTotal        = "pitchfinder_normalizations_total"
	MetricNormalizationFailuresTotal = "pitchfinder_normalization_failures_total"
	MetricLocationLookupsTotal       = "pitchfinder_location_lookups_total"
	MetricEmbeddingFallbacksTotal    = "pitchfinder_embedding_fallbacks_total"
	MetricSearchHitsTotal            = "pitchfinder_search_hits_total"
	MetricSearchFailuresTotal        = "pitchfinder_search_failures_total"
	MetricRankingsTotal              = "pitchfinder_rankings_total"
	MetricRankingDuration            = "pitchfinder_ranking_duration_seconds"
)

// Location lookup outcomes for labeling.
const (
	LookupCache    = "cache"
	LookupSemantic = "semantic"
	LookupDegraded = "degraded"
)

// Metrics contains the Prometheus collectors for the engine.
// All methods are safe on a nil receiver, so components can be built
// without instrumentation.
type Metrics struct {
	normalizations     *prometheus.CounterVec
	normalizeFailures  prometheus.Counter
	locationLookups    *prometheus.CounterVec
	embeddingFallbacks prometheus.Counter
	searchHits         prometheus.Counter
	searchFailures     prometheus.Counter
	rankings           prometheus.Counter
	rankingDuration    prometheus.Histogram
}

// NewMetrics creates a Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		normalizations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricNormalizationsTotal,
				Help: "Total number of raw inputs normalized, by winning strategy",
			},
			[]string{"strategy"},
		),
		normalizeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricNormalizationFailuresTotal,
			Help: "Total number of raw inputs no strategy could normalize",
		}),
		locationLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricLocationLookupsTotal,
				Help: "Total number of location match lookups, by outcome",
			},
			[]string{"outcome"},
		),
		embeddingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricEmbeddingFallbacksTotal,
			Help: "Total number of embeddings replaced by the zero vector",
		}),
		searchHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricSearchHitsTotal,
			Help: "Total number of deduplicated web search hits",
		}),
		searchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricSearchFailuresTotal,
			Help: "Total number of web searches that degraded to no results",
		}),
		rankings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankingsTotal,
			Help: "Total number of ranking calls",
		}),
		rankingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankingDuration,
			Help:    "Histogram of ranking duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.normalizations,
		m.normalizeFailures,
		m.locationLookups,
		m.embeddingFallbacks,
		m.searchHits,
		m.searchFailures,
		m.rankings,
		m.rankingDuration,
	}
}

// IncNormalized counts a successful normalization by the strategy that produced it.
func (m *Metrics) IncNormalized(strategy string) {
	if m == nil {
		return
	}
	m.normalizations.WithLabelValues(strategy).Inc()
}

// IncNormalizeFailure counts an input that every strategy rejected.
func (m *Metrics) IncNormalizeFailure() {
	if m == nil {
		return
	}
	m.normalizeFailures.Inc()
}

// IncLocationLookup counts a location match by outcome (LookupCache,
// LookupSemantic or LookupDegraded).
func (m *Metrics) IncLocationLookup(outcome string) {
	if m == nil {
		return
	}
	m.locationLookups.WithLabelValues(outcome).Inc()
}

// IncEmbeddingFallback counts a zero-vector fallback.
func (m *Metrics) IncEmbeddingFallback() {
	if m == nil {
		return
	}
	m.embeddingFallbacks.Inc()
}

// AddSearchHits counts hits returned by a web search.
func (m *Metrics) AddSearchHits(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.searchHits.Add(float64(n))
}

// IncSearchFailure counts a web search that degraded to an empty result.
func (m *Metrics) IncSearchFailure() {
	if m == nil {
		return
	}
	m.searchFailures.Inc()
}

// ObserveRanking records one ranking call and its duration.
func (m *Metrics) ObserveRanking(d time.Duration) {
	if m == nil {
		return
	}
	m.rankings.Inc()
	m.rankingDuration.Observe(d.Seconds())
}

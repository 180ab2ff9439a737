package ranking

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/location"
)

// LocationMatcher decides whether a query location matches an event's city
// or country. *location.Matcher satisfies it.
type LocationMatcher interface {
	Matches(ctx context.Context, query, city, country string) bool
}

// Score is the outcome of scoring one event.
type Score struct {
	Total       float64
	Components  map[string]float64
	Explanation string
}

// Scorer computes relevance scores. Safe for concurrent use when its
// LocationMatcher is.
type Scorer struct {
	weights Weights
	matcher LocationMatcher
	now     func() time.Time
	logger  *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer) error

// WithWeights replaces the default weights. The weights are validated.
func WithWeights(w Weights) ScorerOption {
	return func(s *Scorer) error {
		if err := w.Validate(); err != nil {
			return err
		}
		s.weights = w
		return nil
	}
}

// WithLocationMatcher sets the location matcher. Default is a matcher with no
// judge, which always runs the substring fallback.
func WithLocationMatcher(m LocationMatcher) ScorerOption {
	return func(s *Scorer) error {
		if m != nil {
			s.matcher = m
		}
		return nil
	}
}

// WithClock sets the time source used for recency and deadlines.
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) error {
		if now == nil {
			return ErrClockRequired
		}
		s.now = now
		return nil
	}
}

// WithScorerLogger sets a custom logger.
func WithScorerLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "scorer")
		return nil
	}
}

// NewScorer creates a scorer with DefaultWeights.
func NewScorer(opts ...ScorerOption) (*Scorer, error) {
	s := &Scorer{
		weights: DefaultWeights(),
		now:     time.Now,
		logger:  slog.Default().With("component", "scorer"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.matcher == nil {
		m, err := location.NewMatcher(location.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.matcher = m
	}
	return s, nil
}

// Weights returns the weights in use.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score rates event against query. similarity is the upstream vector
// similarity and is clamped to [0, 1]. The event is not modified.
func (s *Scorer) Score(ctx context.Context, query *core.SearchQuery, event *core.CanonicalEvent, similarity float64) Score {
	now := s.now().UTC()
	similarity = core.Clamp01(similarity)

	located := false
	if query.Location != "" {
		located = s.matcher.Matches(ctx, query.Location, event.Venue.City, event.Venue.Country)
	}

	components := map[string]float64{
		FactorSemantic:    similarity,
		FactorRecency:     Recency(event.StartUTC, now),
		FactorLogistics:   Logistics(query, event, located),
		FactorPitchSlots:  PitchSlotAvailability(query, event, now),
		FactorCredibility: Credibility(event),
	}

	return Score{
		Total:      s.weights.Total(components),
		Components: components,
		Explanation: explain(query, event, signals{
			similarity: similarity,
			located:    located,
			daysUntil:  daysUntil(event.StartUTC, now),
		}),
	}
}

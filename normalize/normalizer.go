package normalize

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/metrics"
)

// Input is one raw listing handed to the normalizer. Any field may be empty;
// each strategy decides whether it has enough to work with.
type Input struct {
	URL        string          `json:"url,omitempty"`
	HTML       string          `json:"html,omitempty"`
	Title      string          `json:"title,omitempty"`
	Snippet    string          `json:"snippet,omitempty"`
	APIPayload json.RawMessage `json:"api_json,omitempty"`
	SourceID   string          `json:"source_id,omitempty"`
}

// FromHit converts a web search hit into a snippet-only input.
func FromHit(hit core.RawHit) Input {
	return Input{
		URL:      hit.URL,
		Title:    hit.Title,
		Snippet:  hit.Snippet,
		SourceID: hit.SourceID,
	}
}

// Strategy turns a raw input into an event. Parse returns nil when the
// strategy does not apply or cannot find enough to build an event.
type Strategy interface {
	Name() string
	Parse(in Input, source string, now time.Time) *core.CanonicalEvent
}

// DefaultStrategies returns the strategy chain in priority order:
// embedded JSON-LD, platform API payloads, markup heuristics, then
// the search snippet fallback.
func DefaultStrategies() []Strategy {
	return []Strategy{
		JSONLD{},
		NewPlatformStrategy(DefaultPlatforms()),
		Heuristic{},
		Snippet{},
	}
}

// Normalizer turns raw listings into canonical events by trying each
// strategy in order and keeping the first result.
type Normalizer struct {
	strategies []Strategy
	now        func() time.Time
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithStrategies replaces the default strategy chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(n *Normalizer) error {
		if len(strategies) == 0 {
			return ErrNoStrategies
		}
		n.strategies = strategies
		return nil
	}
}

// WithClock sets the time source. Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) error {
		if now == nil {
			return ErrClockRequired
		}
		n.now = now
		return nil
	}
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Normalizer) error {
		n.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger.With("component", "normalizer")
		return nil
	}
}

// New creates a Normalizer with the default strategy chain.
func New(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		strategies: DefaultStrategies(),
		now:        time.Now,
		logger:     slog.Default().With("component", "normalizer"),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Normalize converts one raw input into a canonical event, or returns nil if
// no strategy produced one. A nil result is an expected outcome; callers
// should skip the item and carry on with the batch.
//
// The returned event has invariants clamped and exactly one provenance entry
// recording source, the input URL, the fetch time and a redacted snapshot of
// the input.
func (n *Normalizer) Normalize(in Input, source string) *core.CanonicalEvent {
	now := n.now().UTC()

	for _, strategy := range n.strategies {
		event := strategy.Parse(in, source, now)
		if event == nil {
			continue
		}

		core.Sanitize(event)
		if err := core.ValidateEvent(event); err != nil {
			n.logger.Debug("strategy produced invalid event",
				"strategy", strategy.Name(),
				"error", err)
			continue
		}

		event.LastCanonicalizedAt = now
		event.Sources = append(event.Sources, core.EventSource{
			Source:    source,
			SourceID:  in.SourceID,
			SourceURL: in.URL,
			FetchedAt: now,
			Raw: core.RawSnapshot{
				Title:   in.Title,
				Snippet: in.Snippet,
				URL:     in.URL,
			},
		})

		n.metrics.IncNormalized(strategy.Name())
		n.logger.Info("normalized event",
			"strategy", strategy.Name(),
			"title", event.Title,
			"source", source)
		return event
	}

	n.metrics.IncNormalizeFailure()
	n.logger.Debug("input did not normalize",
		"source", source,
		"url", in.URL,
		"title", in.Title)
	return nil
}

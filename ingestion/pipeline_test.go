package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/pitchfinder/ai/mock"
	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/normalize"
	"github.com/poiesic/pitchfinder/storage"
	"github.com/poiesic/pitchfinder/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	demoDay = normalize.Input{
		Title:   "SaaS Demo Day",
		Snippet: "Join us online on March 5, 2026 for 8 pitch presentations",
		URL:     "https://lu.ma/saas-demo-day",
	}
	pitchNight = normalize.Input{
		Title:   "Fintech Pitch Night",
		Snippet: "Pitch your startup in Berlin on February 12, 2026",
		URL:     "https://www.meetup.com/fintech-pitch-night",
	}
	article = normalize.Input{
		Title:   "Fintech Market Analysis Report",
		Snippet: "This is an article about fintech trends",
	}
)

type pipelineFixture struct {
	pipeline *Pipeline
	repo     storage.EventRepository
	embedder *mock.MockEmbedder
}

func newFixture(t *testing.T, repo storage.EventRepository) *pipelineFixture {
	t.Helper()
	if repo == nil {
		var err error
		repo, err = badger.NewMemoryRepository()
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
	}

	normalizer, err := normalize.New(normalize.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	m := mock.NewMockEmbedder()
	embedder := newTestEmbedder(t, m)

	p, err := NewPipeline(repo, normalizer, embedder, WithPoolSize(2), WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return &pipelineFixture{pipeline: p, repo: repo, embedder: m}
}

func TestPipeline_Ingest(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	events, err := f.pipeline.Ingest(ctx, "tavily", demoDay, article, pitchNight)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "SaaS Demo Day", events[0].Title)
	assert.Equal(t, "Fintech Pitch Night", events[1].Title)

	for _, e := range events {
		assert.Equal(t, e.ID, e.EmbeddingID)
		assert.Equal(t, Summarize(e), e.ShortSummary)
		require.Len(t, e.Sources, 1)
		assert.Equal(t, "tavily", e.Sources[0].Source)
	}

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The stored vector is the normalized embedding of the event text.
	query := mock.Vector(EmbeddingText(events[0]), mock.DefaultDimension)
	results, err := f.repo.Nearest(ctx, query, 1, storage.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, events[0].ID, results[0].ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-5)
}

func TestPipeline_MergesAcrossSources(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.pipeline.Ingest(ctx, "tavily", demoDay)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.pipeline.Ingest(ctx, "eventbrite", demoDay)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, first[0].ID, second[0].ID)
	require.Len(t, second[0].Sources, 2)
	assert.Equal(t, "tavily", second[0].Sources[0].Source)
	assert.Equal(t, "eventbrite", second[0].Sources[1].Source)

	stored, err := f.repo.Get(ctx, first[0].ID)
	require.NoError(t, err)
	assert.Len(t, stored.Sources, 2)

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPipeline_ReingestSameHitKeepsOneSource(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.pipeline.Ingest(ctx, "tavily", pitchNight)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.pipeline.Ingest(ctx, "tavily", pitchNight)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Len(t, second[0].Sources, 1)
	assert.Equal(t, 1, second[0].SourceCount())

	stored, err := f.repo.Get(ctx, first[0].ID)
	require.NoError(t, err)
	assert.Len(t, stored.Sources, 1)
}

func TestPipeline_UncertainDateMergesOnLaterDay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	undated := normalize.Input{
		Title:   "Founders Meetup",
		Snippet: "Monthly founders meetup with open pitch slots",
		URL:     "https://www.meetup.com/founders-meetup",
	}

	first, err := f.pipeline.Ingest(ctx, "tavily", undated)
	require.NoError(t, err)
	require.Len(t, first, 1)

	later, err := normalize.New(normalize.WithClock(func() time.Time { return testNow.AddDate(0, 0, 3) }))
	require.NoError(t, err)
	p, err := NewPipeline(f.repo, later, newTestEmbedder(t, f.embedder), WithPoolSize(1))
	require.NoError(t, err)
	defer p.Release()

	second, err := p.Ingest(ctx, "tavily", undated)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPipeline_MergesWithinBatch(t *testing.T) {
	f := newFixture(t, nil)

	events, err := f.pipeline.IngestHits(context.Background(),
		core.RawHit{Title: demoDay.Title, Snippet: demoDay.Snippet, URL: demoDay.URL, Source: "tavily"},
		core.RawHit{Title: demoDay.Title, Snippet: demoDay.Snippet, URL: "https://other.example", Source: "meetup"},
	)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Sources, 2)
	assert.Equal(t, "meetup", events[0].Sources[1].Source)
	assert.Equal(t, "https://other.example", events[0].Sources[1].SourceURL)
}

func TestPipeline_EmbeddingFailureStillStores(t *testing.T) {
	f := newFixture(t, nil)
	f.embedder.WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	})
	ctx := context.Background()

	events, err := f.pipeline.Ingest(ctx, "tavily", demoDay)
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := f.repo.Get(ctx, events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, events[0].Title, got.Title)

	// A zero vector is similar to nothing.
	results, err := f.repo.Nearest(ctx, mock.Vector("anything", mock.DefaultDimension), 5, storage.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Similarity)
}

type failingRepository struct {
	storage.EventRepository
}

func (failingRepository) Upsert(context.Context, *core.CanonicalEvent, []float32) error {
	return errors.New("disk full")
}

func TestPipeline_SkipsStoreFailures(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	f := newFixture(t, failingRepository{repo})
	events, err := f.pipeline.Ingest(context.Background(), "tavily", demoDay, pitchNight)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPipeline_EmptyAndCancelled(t *testing.T) {
	f := newFixture(t, nil)

	events, err := f.pipeline.Ingest(context.Background(), "tavily")
	require.NoError(t, err)
	assert.Empty(t, events)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.pipeline.Ingest(ctx, "tavily", demoDay)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPipeline_Validation(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()
	normalizer, err := normalize.New()
	require.NoError(t, err)
	embedder, err := NewEventEmbedder(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = NewPipeline(nil, normalizer, embedder)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
	_, err = NewPipeline(repo, nil, embedder)
	assert.ErrorIs(t, err, ErrNormalizerRequired)
	_, err = NewPipeline(repo, normalizer, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

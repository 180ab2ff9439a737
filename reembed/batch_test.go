package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/pitchfinder/ai/mock"
	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/ingestion"
	"github.com/poiesic/pitchfinder/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 3

func newTestEmbedder(t *testing.T, fn func(ctx context.Context, texts []string) ([][]float32, error)) (*ingestion.EventEmbedder, *mock.MockEmbedder) {
	t.Helper()
	m := mock.NewMockEmbedder()
	m.Dimension = testDim
	if fn == nil {
		// Unnormalized on purpose: magnitude 3.
		fn = func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1, 2, 2}
			}
			return out, nil
		}
	}
	m.EmbedTextsFunc = fn
	e, err := ingestion.NewEventEmbedder(m, ingestion.WithDimension(testDim))
	require.NoError(t, err)
	return e, m
}

func assertVector(t *testing.T, repo storage.EventRepository, want []float32) {
	t.Helper()
	results, err := repo.Nearest(context.Background(), want, 100, storage.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.InDelta(t, 1.0, r.Similarity, 1e-5, "event %s", r.ID)
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	repo, events := setupTestDB(t, 2)
	embedder, m := newTestEmbedder(t, nil)

	processor := NewBatchProcessor(repo, embedder, 3, time.Millisecond)
	require.NoError(t, processor.Process(context.Background(), events))

	assert.Equal(t, []string{ingestion.EmbeddingText(events[0]), ingestion.EmbeddingText(events[1])}, m.Texts())
	assertVector(t, repo, []float32{1.0 / 3, 2.0 / 3, 2.0 / 3})
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo, _ := setupTestDB(t, 0)
	embedder, m := newTestEmbedder(t, nil)

	require.NoError(t, NewBatchProcessor(repo, embedder, 3, time.Millisecond).Process(context.Background(), nil))
	assert.Zero(t, m.CallCount())
}

func TestBatchProcessor_EmbeddingError(t *testing.T) {
	repo, events := setupTestDB(t, 1)
	cause := errors.New("embedding error")
	embedder, m := newTestEmbedder(t, func(context.Context, []string) ([][]float32, error) {
		return nil, cause
	})

	err := NewBatchProcessor(repo, embedder, 3, time.Millisecond).Process(context.Background(), events)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, m.CallCount())
}

func TestBatchProcessor_Retry(t *testing.T) {
	repo, events := setupTestDB(t, 1)
	attempts := 0
	embedder, _ := newTestEmbedder(t, func(_ context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("temporary error")
		}
		return [][]float32{{0, 0, 5}}, nil
	})

	require.NoError(t, NewBatchProcessor(repo, embedder, 3, time.Millisecond).Process(context.Background(), events))
	assert.Equal(t, 2, attempts)
	assertVector(t, repo, []float32{0, 0, 1})
}

func TestBatchProcessor_MissingEvent(t *testing.T) {
	repo, _ := setupTestDB(t, 0)
	embedder, _ := newTestEmbedder(t, nil)

	ghost := core.NewEvent("Ghost", testNow)
	err := NewBatchProcessor(repo, embedder, 1, time.Millisecond).Process(context.Background(), []*core.CanonicalEvent{ghost})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

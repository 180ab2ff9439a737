package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) storage.EventRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestEvent(title string, mutate ...func(*core.CanonicalEvent)) *core.CanonicalEvent {
	e := core.NewEvent(title, testNow)
	e.StartUTC = time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)
	e.EndUTC = e.StartUTC
	for _, m := range mutate {
		m(e)
	}
	return e
}

func TestEventRepository_UpsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newTestEvent("Fintech Demo Day")
	require.NoError(t, repo.Upsert(ctx, e, []float32{1, 0, 0}))

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEventRepository_UpsertReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newTestEvent("Pitch Night")
	require.NoError(t, repo.Upsert(ctx, e, []float32{1, 0}))

	e.Description = "updated"
	require.NoError(t, repo.Upsert(ctx, e, []float32{0, 1}))

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEventRepository_FindByKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newTestEvent("Seed  Founders Meetup")
	require.NoError(t, repo.Upsert(ctx, e, nil))

	got, err := repo.FindByKey(ctx, "seed founders meetup|2026-02-01")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	// Moving the date re-indexes the event.
	e.StartUTC = e.StartUTC.AddDate(0, 0, 1)
	e.EndUTC = e.StartUTC
	require.NoError(t, repo.Upsert(ctx, e, nil))

	_, err = repo.FindByKey(ctx, "seed founders meetup|2026-02-01")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	got, err = repo.FindByKey(ctx, core.DedupKey(e))
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}

func TestEventRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newTestEvent("Demo Day")
	require.NoError(t, repo.Upsert(ctx, e, []float32{1}))
	require.NoError(t, repo.Delete(ctx, e.ID))

	_, err := repo.Get(ctx, e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.FindByKey(ctx, core.DedupKey(e))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, e.ID), storage.ErrNotFound)
}

func TestEventRepository_Nearest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	exact := newTestEvent("Exact")
	near := newTestEvent("Near", func(e *core.CanonicalEvent) {
		e.PitchSlots = &core.PitchSlots{Available: true}
	})
	far := newTestEvent("Far")
	cancelled := newTestEvent("Cancelled", func(e *core.CanonicalEvent) { e.Status = core.StatusCancelled })
	unembedded := newTestEvent("No vector")
	otherDim := newTestEvent("Other dimension")

	require.NoError(t, repo.Upsert(ctx, exact, []float32{1, 0, 0}))
	require.NoError(t, repo.Upsert(ctx, near, []float32{0.9, 0.1, 0}))
	require.NoError(t, repo.Upsert(ctx, far, []float32{0, 0, 1}))
	require.NoError(t, repo.Upsert(ctx, cancelled, []float32{1, 0, 0}))
	require.NoError(t, repo.Upsert(ctx, unembedded, nil))
	require.NoError(t, repo.Upsert(ctx, otherDim, []float32{1, 0}))

	query := []float32{1, 0, 0}

	t.Run("active only, ordered by similarity", func(t *testing.T) {
		results, err := repo.Nearest(ctx, query, 10, storage.Filter{Status: core.StatusActive})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, exact.ID, results[0].ID)
		assert.Equal(t, near.ID, results[1].ID)
		assert.Equal(t, far.ID, results[2].ID)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
		assert.InDelta(t, 0.0, results[2].Similarity, 1e-6)

		decoded, err := core.DecodeEvent(results[0].Document)
		require.NoError(t, err)
		assert.Equal(t, "Exact", decoded.Title)
	})

	t.Run("capped at k", func(t *testing.T) {
		results, err := repo.Nearest(ctx, query, 2, storage.Filter{})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("pitch slots filter", func(t *testing.T) {
		yes := true
		results, err := repo.Nearest(ctx, query, 10, storage.Filter{HasPitchSlots: &yes})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, near.ID, results[0].ID)
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := repo.Nearest(ctx, query, 0, storage.Filter{})
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
		_, err = repo.Nearest(ctx, nil, 5, storage.Filter{})
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestEventRepository_UpdateVector(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newTestEvent("Revector")
	require.NoError(t, repo.Upsert(ctx, e, []float32{0, 1}))
	require.NoError(t, repo.UpdateVector(ctx, e.ID, []float32{1, 0}))

	results, err := repo.Nearest(ctx, []float32{1, 0}, 1, storage.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)

	assert.ErrorIs(t, repo.UpdateVector(ctx, "missing", []float32{1}), storage.ErrNotFound)
}

func TestEventRepository_ForEach(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Upsert(ctx, newTestEvent(fmt.Sprintf("Event %d", i)), nil))
	}

	seen := 0
	require.NoError(t, repo.ForEach(ctx, func(*core.CanonicalEvent) error {
		seen++
		return nil
	}))
	assert.Equal(t, 5, seen)

	stop := errors.New("stop")
	calls := 0
	err := repo.ForEach(ctx, func(*core.CanonicalEvent) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, repo.ForEach(cancelled, func(*core.CanonicalEvent) error { return nil }), context.Canceled)
}

func TestEventRepository_Closed(t *testing.T) {
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	_, err = repo.Count(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestNewRepository_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	e := newTestEvent("Persistent")

	repo, err := NewRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, e, []float32{1}))
	require.NoError(t, repo.Close())

	repo, err = NewRepository(dir)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Title, got.Title)
}

func TestEventRepository_SharedBackend(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	repo := NewEventRepository(backend)
	require.NoError(t, repo.Close())
	assert.False(t, backend.IsClosed())
}

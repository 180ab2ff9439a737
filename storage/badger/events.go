package badger

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/storage"
)

// EventRepository implements storage.EventRepository for BadgerDB.
// Nearest is a brute-force scan over every stored vector.
type EventRepository struct {
	backend     *Backend
	ownsBackend bool
}

var _ storage.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a repository on an open backend. Closing the
// repository leaves the backend open.
func NewEventRepository(backend *Backend) *EventRepository {
	return &EventRepository{backend: backend}
}

// NewRepository opens (or creates) a database at path and returns a
// repository that owns it.
func NewRepository(path string) (storage.EventRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &EventRepository{backend: backend, ownsBackend: true}, nil
}

// Close closes the backend if the repository opened it.
func (r *EventRepository) Close() error {
	if r.ownsBackend && !r.backend.IsClosed() {
		return r.backend.Close()
	}
	return nil
}

func (r *EventRepository) checkOpen() error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// Upsert stores the event and its vector, replacing any previous version.
func (r *EventRepository) Upsert(ctx context.Context, event *core.CanonicalEvent, vector []float32) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	record, err := storage.NewRecord(event, vector)
	if err != nil {
		return err
	}
	value, err := storage.MarshalRecord(record)
	if err != nil {
		return err
	}
	dedupKey := core.DedupKey(event)

	return r.backend.Update(func(tx *badger.Txn) error {
		key := makeEventKey(event.ID)

		// Drop the old dedup index entry if the title or date moved.
		old, err := readRecord(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			oldEvent, err := old.Event()
			if err != nil {
				return err
			}
			if oldKey := core.DedupKey(oldEvent); oldKey != dedupKey {
				if err := tx.Delete(makeDedupKey(oldKey)); err != nil {
					return err
				}
			}
		}

		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Set(makeDedupKey(dedupKey), []byte(event.ID))
	})
}

// Get retrieves an event by ID.
func (r *EventRepository) Get(ctx context.Context, id string) (*core.CanonicalEvent, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	var event *core.CanonicalEvent
	err := r.backend.View(func(tx *badger.Txn) error {
		record, err := readRecord(tx, makeEventKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		event, err = record.Event()
		return err
	})
	return event, err
}

// FindByKey retrieves the event indexed under a dedup key.
func (r *EventRepository) FindByKey(ctx context.Context, key string) (*core.CanonicalEvent, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	var event *core.CanonicalEvent
	err := r.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDedupKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		record, err := readRecord(tx, makeEventKey(string(id)))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		event, err = record.Event()
		return err
	})
	return event, err
}

// Delete removes events and their dedup index entries.
func (r *EventRepository) Delete(ctx context.Context, ids ...string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	return r.backend.Update(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEventKey(id)
			record, err := readRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}
			event, err := record.Event()
			if err != nil {
				return err
			}
			if err := tx.Delete(makeDedupKey(core.DedupKey(event))); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateVector replaces the vector of a stored event.
func (r *EventRepository) UpdateVector(ctx context.Context, id string, vector []float32) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	return r.backend.Update(func(tx *badger.Txn) error {
		key := makeEventKey(id)
		record, err := readRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		record.Vector = vector
		value, err := storage.MarshalRecord(record)
		if err != nil {
			return err
		}
		return tx.Set(key, value)
	})
}

// Nearest scans every stored vector and returns the k most similar events
// that pass filter.
func (r *EventRepository) Nearest(ctx context.Context, vector []float32, k int, filter storage.Filter) ([]core.Candidate, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if k < 1 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []core.Candidate
	err := r.scan(ctx, func(record *storage.Record) error {
		if len(record.Vector) != len(vector) {
			if len(record.Vector) > 0 {
				r.backend.logger.Debug("skipping event with mismatched vector length",
					"id", record.ID,
					"got", len(record.Vector),
					"want", len(vector))
			}
			return nil
		}
		if !filter.Matches(record.Metadata) {
			return nil
		}
		results = append(results, core.Candidate{
			ID:         record.ID,
			Document:   record.Document,
			Similarity: storage.CosineSimilarity(vector, record.Vector),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortStableFunc(results, func(a, b core.Candidate) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// ForEach decodes every stored event and passes it to fn.
func (r *EventRepository) ForEach(ctx context.Context, fn func(*core.CanonicalEvent) error) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	return r.scan(ctx, func(record *storage.Record) error {
		event, err := record.Event()
		if err != nil {
			return err
		}
		return fn(event)
	})
}

// Count returns the number of stored events.
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	count := 0
	err := r.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(eventRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// scan iterates every event record, checking ctx between records.
func (r *EventRepository) scan(ctx context.Context, fn func(*storage.Record) error) error {
	return r.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(eventRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record *storage.Record
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// readRecord loads the record stored at key. Returns nil, nil if absent.
func readRecord(tx *badger.Txn, key []byte) (*storage.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var record *storage.Record
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalRecord(val)
		return err
	})
	return record, err
}

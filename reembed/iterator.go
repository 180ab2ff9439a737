// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/storage"
)

const (
	// DefaultBatchSize is the default number of events per batch
	DefaultBatchSize = 100
)

// EventIterator iterates over all stored events in batches.
type EventIterator struct {
	repo      storage.EventRepository
	batchSize int
}

// NewEventIterator creates a new event iterator.
// batchSize: number of events per batch (values <= 0 use DefaultBatchSize)
func NewEventIterator(repo storage.EventRepository, batchSize int) *EventIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &EventIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of events.
// Iteration stops on first error from fn or when all events are processed.
// Context cancellation is checked between batches.
//
// Events are collected before the first batch runs, so fn may write to the
// repository without disturbing the scan.
func (it *EventIterator) ForEach(ctx context.Context, fn func([]*core.CanonicalEvent) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var events []*core.CanonicalEvent
	err := it.repo.ForEach(ctx, func(event *core.CanonicalEvent) error {
		events = append(events, event)
		return nil
	})
	if err != nil {
		return err
	}

	for i := 0; i < len(events); i += it.batchSize {
		end := min(i+it.batchSize, len(events))

		if err := fn(events[i:end]); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

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


// Package storage provides the storage abstraction layer for pitchfinder.
//
// This package defines the vector store contract that decouples storage
// implementation from the search pipeline. Events are stored as opaque JSON
// documents next to their embedding and a flat Metadata record that filters
// run against, so a backend never needs to understand the event schema.
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface to keep callers off backend
// specifics:
//
//	repo, err := badger.NewRepository(path)  // returns storage.EventRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Similarity
//
// Nearest ranks by cosine similarity, CosineSimilarity in this package.
// Vectors need not be normalized.
//
// # Usage
//
//	repo, err := badger.NewRepository("./data/events")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	onlyPitch := true
//	hits, err := repo.Nearest(ctx, queryVector, 20, storage.Filter{HasPitchSlots: &onlyPitch})
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage

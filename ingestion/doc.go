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


// Package ingestion turns raw inputs into stored, embedded canonical events.
//
// A Pipeline normalizes inputs concurrently, folds events already stored
// under the same dedup key into one record, attaches a short summary and an
// embedding, and upserts the result. Inputs that do not normalize are
// skipped; embedding failures degrade to the zero vector so the event is
// still stored and can be ranked on its other factors.
//
// Summarize and EmbeddingText are the fixed text renderings used for the
// short summary and for embedding input.
package ingestion

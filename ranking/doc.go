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


// Package ranking scores canonical events against a search query and orders
// them by relevance.
//
// Each event receives five component scores in [0, 1]:
//
//   - semantic_similarity: the upstream vector similarity, passed through
//   - recency: a step function of days until the event starts
//   - logistics: online access, location match and budget fit
//   - pitch_slot_availability: slots, urgency of the application deadline
//   - credibility: organizer trust, cross-source corroboration, completeness
//
// The total is the weighted sum of the components using Weights, which must
// sum to 1.0. Every ranked event also carries a short explanation built from
// the same signals that produced its score.
//
// Scorer handles one event. Ranker decodes stored candidate documents, scores
// them concurrently on a worker pool and returns them in a stable order,
// highest score first.
package ranking

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


// Package search runs the end-to-end pitch event search.
//
// A Finder searches the web for the query, ingests the first hits into the
// event store, embeds the query, retrieves the nearest stored events under a
// status or pitch-slot filter and ranks them. Collaborator failures along the
// way degrade the result instead of failing it: a failed web search still
// ranks what is already stored, and a failed query embedding still ranks
// candidates on their non-semantic factors.
//
// A Monitor can observe each stage.
package search

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


// Package ai provides abstractions for the AI services the engine relies on.
//
// This package defines interfaces for text embeddings and yes/no semantic
// questions. The normalization and ranking code depends on these
// abstractions rather than on a concrete model vendor.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Judge: Answers a closed yes/no question
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Degraded Results
//
// Collaborator failures never abort a batch. Callers that have a documented
// fallback wrap their outcome in a Result, so a test can tell the real answer
// from the fallback without provoking a network failure:
//
//	res := matcher.Match(ctx, "Bay Area", "San Francisco", "USA")
//	if res.Degraded {
//	    // substring fallback was used
//	}
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockJudge) return
// CONCRETE types to enable test assertions and behavior injection.
//
//	judge := mock.NewMockJudge()
//	judge.AnswerFunc = func(ctx context.Context, system, q string) (bool, error) {
//	    return true, nil
//	}
//	count := judge.CallCount()
package ai

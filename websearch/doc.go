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


// Package websearch finds candidate pitch event pages on the web.
//
// A Searcher turns a SearchQuery into a keyword query biased towards pitch
// events and event platforms, asks a Provider (Tavily by default) for hits,
// de-duplicates them by URL and optionally caches them in Redis. Provider
// failures are retried with backoff and then degrade to an empty result.
package websearch

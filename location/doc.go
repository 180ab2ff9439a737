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


// Package location decides whether a user's location phrase matches an
// event's city and country.
//
// The primary path asks an ai.Judge a yes/no question that covers alternate
// names ("Bengaluru" and "Bangalore"), regions ("Bay Area" and "San
// Francisco"), countries and nearby cities. When no judge is configured or the
// judge fails, the matcher degrades to a case-insensitive substring test of
// the phrase against the city and the country. The degraded mode misses every
// regional, alternate-name and adjacency case and is reported as such through
// ai.Result.
//
// Answers are memoized in a Cache keyed by the normalized (phrase, city,
// country) triple for the lifetime of the Cache, so identical questions reach
// the judge at most once. Construct one Cache per process and share it.
package location

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


// Package extract holds the keyword and pattern heuristics that pull
// structured facts out of free text: dates, deadlines, venues, tags and
// pitch slots.
//
// Every function is pure. Anything that depends on the current time takes
// it as an argument so callers (and tests) control the clock.
//
// # Keyword tables
//
// Classification is driven by ordered tables of (label, keywords) pairs.
// Tables are evaluated top to bottom and the output preserves that order:
//
//	tags := extract.Tags("Seed-stage fintech startups pitch to investors")
//	// []string{"seed", "fintech"}
//
// Keywords of three characters or fewer ("ai", "ml") match on word
// boundaries; longer keywords match as substrings.
package extract

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


package storage

import "errors"

var (
	// ErrNotFound indicates no event is stored under the given ID or dedup key.
	ErrNotFound = errors.New("event not found")

	// ErrStorageClosed indicates the repository was used after Close.
	ErrStorageClosed = errors.New("event store is closed")

	// ErrInvalidQuery indicates a nearest-neighbour query with no vector or
	// a non-positive k.
	ErrInvalidQuery = errors.New("invalid nearest-neighbour query")

	// ErrSerializationFailed indicates a stored record could not be encoded
	// or decoded.
	ErrSerializationFailed = errors.New("event record serialization failed")

	// ErrEventRequired indicates a nil event was passed to a write.
	ErrEventRequired = errors.New("event is required")
)

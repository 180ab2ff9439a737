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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEvent indicates a CanonicalEvent failed validation.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidQuery indicates a SearchQuery failed validation.
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyID indicates the event has no identifier.
	ErrEmptyID = errors.New("event id cannot be empty")

	// ErrInvalidVenueType indicates an unknown VenueType value.
	ErrInvalidVenueType = errors.New("invalid venue type")

	// ErrInvalidRegistrationType indicates an unknown RegistrationType value.
	ErrInvalidRegistrationType = errors.New("invalid registration type")

	// ErrEmptyIntent indicates the query intent is empty.
	ErrEmptyIntent = errors.New("intent cannot be empty")

	// ErrInvalidPersona indicates an unknown Persona value.
	ErrInvalidPersona = errors.New("invalid persona")

	// ErrInvalidDateRange indicates DateTo precedes DateFrom.
	ErrInvalidDateRange = errors.New("date_to is before date_from")

	// ErrMalformedDocument indicates a stored event document could not be decoded.
	ErrMalformedDocument = errors.New("malformed event document")
)

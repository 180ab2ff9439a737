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

import (
	"fmt"
	"math"
	"strings"
)

// ValidateEvent validates a CanonicalEvent according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty
//   - Venue type must be one of in-person, online, hybrid
//   - Registration type must be a known value
//
// NOT validated (repaired by Sanitize instead):
//   - end before start
//   - negative price
//   - credibility outside [0,1]
func ValidateEvent(event *CanonicalEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if event.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyID)
	}

	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyTitle)
	}

	if err := ValidateVenueType(event.Venue.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	if err := ValidateRegistrationType(event.Registration.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	return nil
}

// ValidateQuery validates a SearchQuery.
func ValidateQuery(query *SearchQuery) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if strings.TrimSpace(query.Intent) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyIntent)
	}

	if query.Persona != PersonaFounder && query.Persona != PersonaInvestor {
		return fmt.Errorf("%w: %w: %q", ErrInvalidQuery, ErrInvalidPersona, query.Persona)
	}

	if query.DateFrom != nil && query.DateTo != nil && query.DateTo.Before(*query.DateFrom) {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrInvalidDateRange)
	}

	return nil
}

// ValidateVenueType validates that a VenueType has a known value.
func ValidateVenueType(t VenueType) error {
	switch t {
	case VenueInPerson, VenueOnline, VenueHybrid:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidVenueType, t)
}

// ValidateRegistrationType validates that a RegistrationType has a known value.
func ValidateRegistrationType(t RegistrationType) error {
	switch t {
	case RegistrationTicket, RegistrationRSVP, RegistrationApplication, RegistrationInviteOnly, RegistrationFree:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRegistrationType, t)
}

// Sanitize repairs invariant violations in place instead of rejecting the event:
//   - start and end are converted to UTC, and end is raised to start when earlier
//   - a negative or non-finite price becomes 0, an empty currency becomes USD
//   - an empty organizer name becomes "Unknown"
//   - organizer credibility is clamped to [0,1], NaN becomes the default
//   - a non-positive slot count is dropped
//   - missing venue type, timezone, status and slices get their defaults
func Sanitize(event *CanonicalEvent) {
	if event == nil {
		return
	}

	event.StartUTC = event.StartUTC.UTC()
	event.EndUTC = event.EndUTC.UTC()
	if event.EndUTC.Before(event.StartUTC) {
		event.EndUTC = event.StartUTC
	}

	if event.Timezone == "" {
		event.Timezone = DefaultTimezone
	}
	if event.Venue.Type == "" {
		event.Venue.Type = VenueOnline
	}

	if p := event.Registration.Price; p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		event.Registration.Price = 0
	}
	if event.Registration.Currency == "" {
		event.Registration.Currency = DefaultCurrency
	}
	if event.Registration.Type == "" {
		event.Registration.Type = RegistrationRSVP
	}

	if strings.TrimSpace(event.Organizer.Name) == "" {
		event.Organizer.Name = DefaultOrganizerName
	}
	if math.IsNaN(event.Organizer.CredibilityScore) {
		event.Organizer.CredibilityScore = DefaultCredibility
	}
	event.Organizer.CredibilityScore = Clamp01(event.Organizer.CredibilityScore)

	if event.PitchSlots != nil {
		if event.PitchSlots.SlotCount != nil && *event.PitchSlots.SlotCount <= 0 {
			event.PitchSlots.SlotCount = nil
		}
		if event.PitchSlots.ApplicationDeadline != nil {
			d := event.PitchSlots.ApplicationDeadline.UTC()
			event.PitchSlots.ApplicationDeadline = &d
		}
	}

	if event.Status == "" {
		event.Status = StatusActive
	}
	if event.Tags == nil {
		event.Tags = []string{}
	}
	if event.Sources == nil {
		event.Sources = []EventSource{}
	}
}

// Clamp01 limits v to the closed interval [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package core

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// EncodeEvent serializes an event into the self-describing document stored
// alongside its vector.
func EncodeEvent(event *CanonicalEvent) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}
	return json.Marshal(event)
}

// DecodeEvent parses a stored document back into an event.
func DecodeEvent(document []byte) (*CanonicalEvent, error) {
	var event CanonicalEvent
	if err := json.Unmarshal(document, &event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if event.ID == "" {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, ErrEmptyID)
	}
	return &event, nil
}

// DedupKey identifies the same real-world event discovered from different
// sources. Events with an assumed start date are keyed by their first source
// URL instead, since the assumed date moves with the day they were found.
func DedupKey(event *CanonicalEvent) string {
	title := strings.ToLower(strings.Join(strings.Fields(event.Title), " "))
	if event.HasTag(TagDateUncertain) {
		if url := firstURL(event); url != "" {
			return title + "|" + url
		}
	}
	return title + "|" + event.StartUTC.UTC().Format("2006-01-02")
}

func firstURL(event *CanonicalEvent) string {
	for _, s := range event.Sources {
		if s.SourceURL != "" {
			return s.SourceURL
		}
	}
	return event.Registration.URL
}

// MergeSources folds a re-discovered copy of an event into the existing one.
// New provenance is appended; a repeat fetch of a source URL already on
// record only refreshes that entry. Fields the existing record is missing
// are filled from the incoming one.
func MergeSources(existing, incoming *CanonicalEvent) *CanonicalEvent {
	if existing == nil {
		return incoming
	}
	if incoming == nil {
		return existing
	}

	for _, src := range incoming.Sources {
		if i := slices.IndexFunc(existing.Sources, func(s EventSource) bool {
			return keyOf(s) == keyOf(src)
		}); i >= 0 {
			existing.Sources[i].FetchedAt = src.FetchedAt
			existing.Sources[i].Raw = src.Raw
			continue
		}
		existing.Sources = append(existing.Sources, src)
	}

	if existing.Description == "" {
		existing.Description = incoming.Description
	}
	if existing.PitchSlots == nil && incoming.PitchSlots != nil {
		existing.PitchSlots = incoming.PitchSlots
	}
	if existing.Registration.URL == "" {
		existing.Registration.URL = incoming.Registration.URL
	}
	if existing.Organizer.ContactEmail == "" {
		existing.Organizer.ContactEmail = incoming.Organizer.ContactEmail
	}
	if existing.Organizer.Website == "" {
		existing.Organizer.Website = incoming.Organizer.Website
	}
	if existing.Organizer.Name == DefaultOrganizerName && incoming.Organizer.Name != DefaultOrganizerName {
		existing.Organizer.Name = incoming.Organizer.Name
	}
	if existing.Venue.City == "" && incoming.Venue.City != "" {
		existing.Venue = incoming.Venue
	}
	for _, tag := range incoming.Tags {
		if !existing.HasTag(tag) {
			existing.Tags = append(existing.Tags, tag)
		}
	}
	if incoming.LastCanonicalizedAt.After(existing.LastCanonicalizedAt) {
		existing.LastCanonicalizedAt = incoming.LastCanonicalizedAt
	}

	return existing
}

package storage

import (
	"strings"
	"time"

	"github.com/poiesic/pitchfinder/core"
)

// Metadata is the flat, filterable projection of an event stored next to
// its document.
type Metadata struct {
	Title            string                `json:"title"`
	StartUTC         string                `json:"start_utc"`
	EndUTC           string                `json:"end_utc"`
	VenueType        core.VenueType        `json:"venue_type"`
	City             string                `json:"city"`
	Country          string                `json:"country"`
	HasPitchSlots    bool                  `json:"has_pitch_slots"`
	RegistrationType core.RegistrationType `json:"registration_type"`
	Price            float64               `json:"price"`
	OrganizerName    string                `json:"organizer_name"`
	Tags             string                `json:"tags"`
	Status           core.EventStatus      `json:"status"`
}

// MetadataFor projects an event onto Metadata. Tags are comma-separated.
func MetadataFor(event *core.CanonicalEvent) Metadata {
	return Metadata{
		Title:            event.Title,
		StartUTC:         event.StartUTC.UTC().Format(time.RFC3339),
		EndUTC:           event.EndUTC.UTC().Format(time.RFC3339),
		VenueType:        event.Venue.Type,
		City:             event.Venue.City,
		Country:          event.Venue.Country,
		HasPitchSlots:    event.HasPitchSlots(),
		RegistrationType: event.Registration.Type,
		Price:            event.Registration.Price,
		OrganizerName:    event.Organizer.Name,
		Tags:             strings.Join(event.Tags, ","),
		Status:           event.Status,
	}
}

// Filter restricts Nearest results by equality on metadata. Zero-valued
// fields match everything.
type Filter struct {
	VenueType     core.VenueType
	HasPitchSlots *bool
	Status        core.EventStatus
}

// Matches reports whether m passes every set field of f.
func (f Filter) Matches(m Metadata) bool {
	if f.VenueType != "" && m.VenueType != f.VenueType {
		return false
	}
	if f.HasPitchSlots != nil && m.HasPitchSlots != *f.HasPitchSlots {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	return true
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// VenueType tags how an event is attended.
type VenueType string

const (
	VenueInPerson VenueType = "in-person"
	VenueOnline   VenueType = "online"
	VenueHybrid   VenueType = "hybrid"
)

// RegistrationType tags how attendees sign up.
type RegistrationType string

const (
	RegistrationTicket      RegistrationType = "ticket"
	RegistrationRSVP        RegistrationType = "rsvp"
	RegistrationApplication RegistrationType = "application"
	RegistrationInviteOnly  RegistrationType = "invite-only"
	RegistrationFree        RegistrationType = "free"
)

// EventStatus is the lifecycle state of an event. The engine only ever
// produces StatusActive; other states are set by external collaborators.
type EventStatus string

const (
	StatusActive    EventStatus = "active"
	StatusCancelled EventStatus = "cancelled"
	StatusPast      EventStatus = "past"
	StatusFull      EventStatus = "full"
)

// Persona identifies who is searching.
type Persona string

const (
	PersonaFounder  Persona = "founder"
	PersonaInvestor Persona = "investor"
)

// Defaults applied by NewEvent and Sanitize.
const (
	DefaultCurrency      = "USD"
	DefaultOrganizerName = "Unknown"
	DefaultCredibility   = 0.5
	DefaultTimezone      = "UTC"
	DefaultMaxResults    = 10
)

// TagDateUncertain marks an event whose start date was assumed rather than
// found in the source.
const TagDateUncertain = "date-uncertain"

// Venue describes where an event happens.
type Venue struct {
	Type    VenueType `json:"type"`
	Name    string    `json:"name,omitempty"`
	Address string    `json:"address,omitempty"`
	City    string    `json:"city,omitempty"`
	Country string    `json:"country,omitempty"`
}

// PitchSlots describes the opportunity for founders to present.
type PitchSlots struct {
	Available           bool       `json:"available"`
	SlotCount           *int       `json:"slot_count,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	ApplicationURL      string     `json:"application_url,omitempty"`
	Requirements        string     `json:"requirements,omitempty"`
}

// Registration holds ticketing information.
type Registration struct {
	Type           RegistrationType `json:"type"`
	URL            string           `json:"url,omitempty"`
	Price          float64          `json:"price"`
	Currency       string           `json:"currency"`
	Deadline       *time.Time       `json:"deadline,omitempty"`
	Capacity       *int             `json:"capacity,omitempty"`
	SpotsRemaining *int             `json:"spots_remaining,omitempty"`
}

// Organizer is the party running the event.
type Organizer struct {
	Name             string  `json:"name"`
	ContactEmail     string  `json:"contact_email,omitempty"`
	Website          string  `json:"website,omitempty"`
	CredibilityScore float64 `json:"credibility_score"`
}

// RawSnapshot is the redacted copy of the input kept for provenance.
// Full markup is never retained.
type RawSnapshot struct {
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url,omitempty"`
}

// EventSource records one upstream discovery of an event.
type EventSource struct {
	Source    string      `json:"source"`
	SourceID  string      `json:"source_id,omitempty"`
	SourceURL string      `json:"source_url,omitempty"`
	FetchedAt time.Time   `json:"fetched_at"`
	Raw       RawSnapshot `json:"raw_data"`
}

// CanonicalEvent is the normalized representation of a pitch event,
// regardless of the source it was discovered from.
type CanonicalEvent struct {
	ID           string `json:"event_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ShortSummary string `json:"short_summary,omitempty"`

	StartUTC time.Time `json:"start_utc"`
	EndUTC   time.Time `json:"end_utc"`
	Timezone string    `json:"timezone"`

	Venue      Venue       `json:"venue"`
	OnlineURL  string      `json:"online_url,omitempty"`
	PitchSlots *PitchSlots `json:"pitch_slots,omitempty"`

	Registration Registration `json:"registration"`
	Organizer    Organizer    `json:"organizer"`

	Tags    []string      `json:"tags"`
	Sources []EventSource `json:"sources"`

	EmbeddingID         string      `json:"embedding_id,omitempty"`
	LastCanonicalizedAt time.Time   `json:"last_canonicalized_at"`
	Status              EventStatus `json:"status"`
}

// NewEvent creates an event with a fresh identifier and the documented defaults.
func NewEvent(title string, now time.Time) *CanonicalEvent {
	now = now.UTC()
	return &CanonicalEvent{
		ID:       uuid.NewString(),
		Title:    title,
		StartUTC: now,
		EndUTC:   now,
		Timezone: DefaultTimezone,
		Venue:    Venue{Type: VenueOnline},
		Registration: Registration{
			Type:     RegistrationRSVP,
			Currency: DefaultCurrency,
		},
		Organizer: Organizer{
			Name:             DefaultOrganizerName,
			CredibilityScore: DefaultCredibility,
		},
		Tags:                []string{},
		Sources:             []EventSource{},
		LastCanonicalizedAt: now,
		Status:              StatusActive,
	}
}

// HasPitchSlots reports whether the event advertises available pitch slots.
func (e *CanonicalEvent) HasPitchSlots() bool {
	return e.PitchSlots != nil && e.PitchSlots.Available
}

// HasTag reports whether tag is among the event's tags.
func (e *CanonicalEvent) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SourceCount returns the number of distinct provenance entries, counting
// repeat fetches of the same source URL once.
func (e *CanonicalEvent) SourceCount() int {
	seen := make(map[sourceKey]struct{}, len(e.Sources))
	for _, s := range e.Sources {
		seen[keyOf(s)] = struct{}{}
	}
	return len(seen)
}

type sourceKey struct{ source, url string }

func keyOf(s EventSource) sourceKey {
	return sourceKey{source: s.Source, url: s.SourceURL}
}

// SearchQuery is a user's request with its filters.
type SearchQuery struct {
	Intent     string     `json:"intent"`
	Persona    Persona    `json:"persona"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Location   string     `json:"location,omitempty"`
	Region     string     `json:"region,omitempty"`
	Industry   []string   `json:"industry,omitempty"`
	MaxPrice   *float64   `json:"max_price,omitempty"`
	PitchOnly  bool       `json:"pitch_only"`
	OnlineOnly bool       `json:"online_only"`
	MaxResults int        `json:"max_results"`
}

// Limit returns the number of results the caller asked for.
func (q *SearchQuery) Limit() int {
	if q.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return q.MaxResults
}

// RankedEvent wraps an event with its relevance score. It is produced
// fresh on every ranking call and never persisted.
type RankedEvent struct {
	Event        *CanonicalEvent    `json:"event"`
	Score        float64            `json:"score"`
	Explanation  string             `json:"explanation"`
	MatchFactors map[string]float64 `json:"match_factors"`
}

// RawHit is a single result from the web search collaborator.
type RawHit struct {
	Title       string     `json:"title"`
	Snippet     string     `json:"snippet"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	SourceID    string     `json:"source_id,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	Score       float64    `json:"score"`
}

// Candidate is a nearest-neighbour result from the vector store: the stored
// event document plus its similarity to the query vector.
type Candidate struct {
	ID         string  `json:"id"`
	Document   []byte  `json:"document"`
	Similarity float64 `json:"similarity"`
}

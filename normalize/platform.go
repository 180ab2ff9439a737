package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/extract"
)

// PlatformParser converts one platform's API payload into an event.
type PlatformParser func(payload json.RawMessage, now time.Time) *core.CanonicalEvent

// Platforms maps a source identifier to its payload parser.
type Platforms map[string]PlatformParser

// DefaultPlatforms returns the built-in platform parsers. Sources without a
// parser (meetup, for one) simply yield no result.
func DefaultPlatforms() Platforms {
	return Platforms{
		"eventbrite": ParseEventbrite,
	}
}

// PlatformStrategy dispatches API payloads by source identifier.
type PlatformStrategy struct {
	platforms Platforms
}

// NewPlatformStrategy creates a strategy over the given registry.
func NewPlatformStrategy(platforms Platforms) PlatformStrategy {
	return PlatformStrategy{platforms: platforms}
}

func (PlatformStrategy) Name() string { return "platform" }

func (p PlatformStrategy) Parse(in Input, source string, now time.Time) *core.CanonicalEvent {
	if len(in.APIPayload) == 0 {
		return nil
	}
	parse, ok := p.platforms[strings.ToLower(source)]
	if !ok {
		return nil
	}
	return parse(in.APIPayload, now)
}

// Eventbrite v3 event object, reduced to the fields we map.
type eventbriteEvent struct {
	ID          string           `json:"id"`
	Name        eventbriteText   `json:"name"`
	Description eventbriteText   `json:"description"`
	Summary     string           `json:"summary"`
	URL         string           `json:"url"`
	Start       eventbriteTime   `json:"start"`
	End         eventbriteTime   `json:"end"`
	OnlineEvent bool             `json:"online_event"`
	IsFree      bool             `json:"is_free"`
	Capacity    *int             `json:"capacity"`
	Currency    string           `json:"currency"`
	Venue       *eventbriteVenue `json:"venue"`
	Organizer   *struct {
		Name    string `json:"name"`
		Website string `json:"website"`
	} `json:"organizer"`
	TicketAvailability *struct {
		MinimumTicketPrice *struct {
			MajorValue string `json:"major_value"`
			Currency   string `json:"currency"`
		} `json:"minimum_ticket_price"`
	} `json:"ticket_availability"`
}

type eventbriteText struct {
	Text string `json:"text"`
}

type eventbriteTime struct {
	Timezone string `json:"timezone"`
	UTC      string `json:"utc"`
}

type eventbriteVenue struct {
	Name    string `json:"name"`
	Address struct {
		Address1 string `json:"address_1"`
		City     string `json:"city"`
		Country  string `json:"country"`
	} `json:"address"`
}

// ParseEventbrite maps an Eventbrite v3 event payload. Payloads without a
// name are rejected.
func ParseEventbrite(payload json.RawMessage, now time.Time) *core.CanonicalEvent {
	var eb eventbriteEvent
	if err := json.Unmarshal(payload, &eb); err != nil {
		return nil
	}
	title := strings.TrimSpace(eb.Name.Text)
	if title == "" {
		return nil
	}

	event := core.NewEvent(title, now)
	event.Description = eb.Description.Text
	if event.Description == "" {
		event.Description = eb.Summary
	}

	event.StartUTC = eventbriteInstant(eb.Start, now)
	event.EndUTC = event.StartUTC
	if eb.End.UTC != "" {
		event.EndUTC = eventbriteInstant(eb.End, now)
	}
	if eb.Start.Timezone != "" {
		event.Timezone = eb.Start.Timezone
	}

	switch {
	case eb.OnlineEvent:
		event.Venue = core.Venue{Type: core.VenueOnline, Name: extract.OnlineVenueName}
		event.OnlineURL = eb.URL
	case eb.Venue != nil:
		event.Venue = core.Venue{
			Type:    core.VenueInPerson,
			Name:    eb.Venue.Name,
			Address: eb.Venue.Address.Address1,
			City:    eb.Venue.Address.City,
			Country: eb.Venue.Address.Country,
		}
	}

	event.Registration = core.Registration{
		Type:     core.RegistrationFree,
		URL:      eb.URL,
		Currency: eb.Currency,
		Capacity: eb.Capacity,
	}
	if !eb.IsFree {
		event.Registration.Type = core.RegistrationTicket
		if ta := eb.TicketAvailability; ta != nil && ta.MinimumTicketPrice != nil {
			if price, err := strconv.ParseFloat(ta.MinimumTicketPrice.MajorValue, 64); err == nil {
				event.Registration.Price = price
			}
			if ta.MinimumTicketPrice.Currency != "" {
				event.Registration.Currency = ta.MinimumTicketPrice.Currency
			}
		}
	}

	if eb.Organizer != nil {
		if name := strings.TrimSpace(eb.Organizer.Name); name != "" {
			event.Organizer.Name = name
		}
		event.Organizer.Website = eb.Organizer.Website
	}

	text := title + " " + event.Description
	event.PitchSlots = extract.PitchSlots(text, now)
	event.Tags = extract.Tags(text)
	return event
}

func eventbriteInstant(t eventbriteTime, now time.Time) time.Time {
	parsed, err := time.Parse(time.RFC3339, t.UTC)
	if err != nil {
		return now
	}
	return parsed.UTC()
}

package ranking

import (
	"math"
	"time"

	"github.com/poiesic/pitchfinder/core"
)

const (
	// NetworkingValue scores an event without pitch slots. Attending still
	// has some value to a founder.
	NetworkingValue = 0.3

	logisticsBase         = 0.5
	countryMatchLogistics = 0.7
	budgetBonus           = 0.2
	crossSourceBonus      = 0.2
	completenessStep      = 0.1
)

// daysUntil returns whole days from now until t, rounding down. An instant
// twelve hours in the past is day -1.
func daysUntil(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// Recency scores how soon an event starts: past events 0, within a week 1.0,
// within a month 0.8, within three months 0.5, later 0.3.
func Recency(start, now time.Time) float64 {
	days := daysUntil(start, now)
	switch {
	case days < 0:
		return 0.0
	case days <= 7:
		return 1.0
	case days <= 30:
		return 0.8
	case days <= 90:
		return 0.5
	default:
		return 0.3
	}
}

// Logistics scores how practical it is to attend. located reports whether
// the query location matched the event location and is ignored when the
// query names no location.
func Logistics(query *core.SearchQuery, event *core.CanonicalEvent, located bool) float64 {
	score := logisticsBase

	if event.Venue.Type == core.VenueOnline {
		score = 1.0
	}

	if query.Location != "" && located {
		if event.Venue.City != "" {
			score = 1.0
		} else {
			score = countryMatchLogistics
		}
	}

	if query.MaxPrice != nil {
		if event.Registration.Price <= *query.MaxPrice {
			score = math.Min(score+budgetBonus, 1.0)
		} else {
			score *= 0.5
		}
	}

	return score
}

// PitchSlotAvailability scores the chance to pitch. A pitch-only query
// against an event with no slot information scores 0. Slots whose
// application deadline has passed also score 0; a deadline within three days
// scores 0.7 and within seven days 0.9.
func PitchSlotAvailability(query *core.SearchQuery, event *core.CanonicalEvent, now time.Time) float64 {
	if query.PitchOnly && event.PitchSlots == nil {
		return 0.0
	}
	if !event.HasPitchSlots() {
		return NetworkingValue
	}

	deadline := event.PitchSlots.ApplicationDeadline
	if deadline == nil {
		return 1.0
	}
	days := daysUntil(*deadline, now)
	switch {
	case days < 0:
		return 0.0
	case days <= 3:
		return 0.7
	case days <= 7:
		return 0.9
	default:
		return 1.0
	}
}

// Credibility scores trust in the event: the organizer's score, a bonus when
// more than one distinct source reported it, and 0.1 for each of contact email,
// registration URL and application URL. Capped at 1.0.
func Credibility(event *core.CanonicalEvent) float64 {
	score := event.Organizer.CredibilityScore

	if event.SourceCount() > 1 {
		score = math.Min(score+crossSourceBonus, 1.0)
	}

	var completeness float64
	if event.Organizer.ContactEmail != "" {
		completeness += completenessStep
	}
	if event.Registration.URL != "" {
		completeness += completenessStep
	}
	if event.PitchSlots != nil && event.PitchSlots.ApplicationURL != "" {
		completeness += completenessStep
	}

	return core.Clamp01(score + completeness)
}

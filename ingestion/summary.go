package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/pitchfinder/core"
)

const (
	maxSummaryLength     = 400
	maxDescriptionLength = 500
	summaryTags          = 3
)

// Summarize renders the short summary shown next to a search result, for
// example "Demo Day. on March 05, 2026. in Berlin. with 8 pitch slots
// available. (free). Tags: fintech, seed." Summaries longer than 400
// characters are cut to 397 and end in "...".
func Summarize(event *core.CanonicalEvent) string {
	parts := []string{
		event.Title,
		"on " + event.StartUTC.UTC().Format("January 02, 2006"),
	}

	switch {
	case event.Venue.Type == core.VenueInPerson && event.Venue.City != "":
		parts = append(parts, "in "+event.Venue.City)
	case event.Venue.Type == core.VenueOnline:
		parts = append(parts, "(online)")
	}

	if event.HasPitchSlots() {
		if n := event.PitchSlots.SlotCount; n != nil {
			parts = append(parts, fmt.Sprintf("with %d pitch slots available", *n))
		} else {
			parts = append(parts, "with pitch slots available")
		}
	}

	if event.Registration.Price == 0 {
		parts = append(parts, "(free)")
	} else {
		parts = append(parts, fmt.Sprintf("(%s %s)",
			event.Registration.Currency,
			strconv.FormatFloat(event.Registration.Price, 'f', -1, 64)))
	}

	if len(event.Tags) > 0 {
		tags := event.Tags[:min(len(event.Tags), summaryTags)]
		parts = append(parts, "Tags: "+strings.Join(tags, ", "))
	}

	return truncate(strings.Join(parts, ". ")+".", maxSummaryLength)
}

// EmbeddingText renders the text an event is embedded from: title, the first
// 500 characters of the description, organizer, location, tags and a pitch
// slot cue, joined with " | ".
func EmbeddingText(event *core.CanonicalEvent) string {
	parts := []string{
		"Title: " + event.Title,
		"Description: " + prefix(event.Description, maxDescriptionLength),
		"Organizer: " + event.Organizer.Name,
	}

	if city := event.Venue.City; city != "" {
		if country := event.Venue.Country; country != "" {
			parts = append(parts, "Location: "+city+", "+country)
		} else {
			parts = append(parts, "Location: "+city)
		}
	}

	if len(event.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(event.Tags, ", "))
	}

	if event.HasPitchSlots() {
		parts = append(parts, "Pitch slots available for founders")
	}

	return strings.Join(parts, " | ")
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

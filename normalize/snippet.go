package normalize

import (
	"strings"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/extract"
)

const (
	// UncertainDateOffset is how far ahead a fabricated start date is placed
	// when a snippet looks like an event but carries no date.
	UncertainDateOffset = 30 * 24 * time.Hour

	// UncertainDateNote is appended to the description of such events.
	UncertainDateNote = " [Date uncertain - please verify]"
)

// Snippet builds an event from a search result's title and snippet alone.
//
// Snippets often omit dates while still describing a real upcoming event, so
// an undated snippet with an event keyword or a pitch cue gets a start date
// 30 days out and the date-uncertain tag. Without either it is rejected.
type Snippet struct{}

func (Snippet) Name() string { return "snippet" }

func (Snippet) Parse(in Input, _ string, now time.Time) *core.CanonicalEvent {
	title := strings.TrimSpace(in.Title)
	snippet := strings.TrimSpace(in.Snippet)
	if title == "" || snippet == "" {
		return nil
	}

	combined := title + " " + snippet
	dates := extract.EventDates(combined, now)
	slots := extract.PitchSlots(combined, now)

	event := core.NewEvent(title, now)
	event.Venue = extract.Venue(combined)
	event.Registration.Type = core.RegistrationRSVP
	event.Registration.URL = in.URL
	event.PitchSlots = slots
	event.Tags = extract.Tags(combined)

	if len(dates) == 0 {
		if slots == nil && !extract.LooksLikeEvent(combined) {
			return nil
		}
		start := now.UTC().Add(UncertainDateOffset)
		event.StartUTC, event.EndUTC = start, start
		event.Tags = append(event.Tags, extract.TagDateUncertain)
		event.Description = truncateRunes(snippet, DescriptionLimit) + UncertainDateNote
		return event
	}

	event.StartUTC = dates[0]
	event.EndUTC = dates[len(dates)-1]
	event.Description = truncateRunes(snippet, DescriptionLimit)
	return event
}

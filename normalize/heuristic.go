package normalize

import (
	"strings"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/extract"
)

var titleSelectors = []string{"h1", "title", ".event-title"}

// Heuristic extracts an event from rendered page text. It needs both a title
// and at least one date; a page with a title but no date is not an event.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Parse(in Input, _ string, now time.Time) *core.CanonicalEvent {
	doc, ok := parseHTML(in.HTML)
	if !ok {
		return nil
	}

	var title string
	for _, selector := range titleSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if title = strings.Join(strings.Fields(sel.Text()), " "); title != "" {
				break
			}
		}
	}
	if title == "" {
		return nil
	}

	text := visibleText(doc)
	dates := extract.EventDates(text, now)
	if len(dates) == 0 {
		return nil
	}

	event := core.NewEvent(title, now)
	event.Description = truncateRunes(text, DescriptionLimit)
	event.StartUTC = dates[0]
	event.EndUTC = dates[len(dates)-1]
	event.Venue = extract.Venue(text)
	event.Registration.Type = core.RegistrationRSVP
	event.Registration.URL = in.URL
	event.PitchSlots = extract.PitchSlots(text, now)
	event.Tags = extract.Tags(text)
	return event
}

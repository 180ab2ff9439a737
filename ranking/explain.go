package ranking

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/pitchfinder/core"
)

const (
	strongSemanticThreshold = 0.7
	genericReason           = "relevant to your search"
)

// signals are the facts a score was computed from. Explanations read them
// instead of re-deriving anything.
type signals struct {
	similarity float64
	located    bool
	daysUntil  int
}

// explain lists the reasons an event matched, in a fixed order: strong
// semantic match, location, online access, pitch slots, industry tags,
// free entry, imminence.
func explain(query *core.SearchQuery, event *core.CanonicalEvent, s signals) string {
	var reasons []string

	if s.similarity > strongSemanticThreshold {
		reasons = append(reasons, "strong semantic match to your query")
	}

	if query.Location != "" && s.located {
		place := event.Venue.City
		if place == "" {
			place = event.Venue.Country
		}
		reasons = append(reasons, "located in "+place)
	}

	if event.Venue.Type == core.VenueOnline {
		reasons = append(reasons, "online event (accessible anywhere)")
	}

	if event.HasPitchSlots() {
		if d := event.PitchSlots.ApplicationDeadline; d != nil {
			reasons = append(reasons, fmt.Sprintf("pitch slots available (deadline %s)", d.Format("Jan 02")))
		} else {
			reasons = append(reasons, "pitch slots available")
		}
	}

	if matched := matchingTags(query.Industry, event.Tags); len(matched) > 0 {
		reasons = append(reasons, "matches "+strings.Join(matched, ", "))
	}

	if event.Registration.Price == 0 {
		reasons = append(reasons, "free event")
	}

	if s.daysUntil > 0 && s.daysUntil <= 7 {
		reasons = append(reasons, "happening soon")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, genericReason)
	}

	return capitalize(strings.Join(reasons, "; "))
}

// matchingTags returns the event tags named in industries, in the order the
// query lists them. Comparison ignores case.
func matchingTags(industries, tags []string) []string {
	var matched []string
	for _, want := range industries {
		for _, tag := range tags {
			if strings.EqualFold(strings.TrimSpace(want), tag) {
				matched = append(matched, tag)
				break
			}
		}
	}
	return matched
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

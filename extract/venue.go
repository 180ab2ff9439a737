package extract

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/poiesic/pitchfinder/core"
)

// OnlineVenueName is the display name given to venues classified as online
// from a textual cue.
const OnlineVenueName = "Online Event"

var (
	onlineCue   = regexp.MustCompile(`(?i)\b(online|virtual|webinars?|zoom|teams|meet)\b`)
	cityPattern = regexp.MustCompile(`\bin\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
)

// Venue infers where an event happens from free text.
//
// Any online cue makes it online. Otherwise the first capitalized "in <City>"
// phrase makes it in-person in that city. Without either the event is
// assumed to be online.
func Venue(text string) core.Venue {
	if onlineCue.MatchString(text) {
		return core.Venue{Type: core.VenueOnline, Name: OnlineVenueName}
	}

	for _, m := range cityPattern.FindAllStringSubmatch(text, -1) {
		city := m[1]
		if first, _, _ := strings.Cut(city, " "); isMonthName(first) {
			continue
		}
		return core.Venue{
			Type: core.VenueInPerson,
			Name: fmt.Sprintf("Event in %s", city),
			City: city,
		}
	}

	return core.Venue{Type: core.VenueOnline}
}

// StructuredVenue maps a decoded schema.org location value onto a Venue.
//
// A VirtualLocation is online. A Place is in-person with its address copied
// verbatim; the address may be a plain string or a PostalAddress object.
// A bare string is taken as the place name. Lists use their first element.
// Anything else, including an absent location, is online.
func StructuredVenue(location any) core.Venue {
	switch loc := location.(type) {
	case []any:
		if len(loc) == 0 {
			return core.Venue{Type: core.VenueOnline}
		}
		return StructuredVenue(loc[0])
	case string:
		if strings.TrimSpace(loc) == "" {
			return core.Venue{Type: core.VenueOnline}
		}
		return core.Venue{Type: core.VenueInPerson, Name: loc, Address: loc}
	case map[string]any:
		return venueFromObject(loc)
	}
	return core.Venue{Type: core.VenueOnline}
}

func venueFromObject(loc map[string]any) core.Venue {
	types := SchemaTypes(loc["@type"])
	switch {
	case slices.Contains(types, "VirtualLocation"):
		return core.Venue{Type: core.VenueOnline, Name: OnlineVenueName}
	case slices.Contains(types, "Place"):
		venue := core.Venue{
			Type: core.VenueInPerson,
			Name: stringField(loc, "name"),
		}
		switch addr := loc["address"].(type) {
		case string:
			venue.Address = addr
		case map[string]any:
			venue.Address = stringField(addr, "streetAddress")
			venue.City = stringField(addr, "addressLocality")
			venue.Country = countryField(addr["addressCountry"])
		}
		return venue
	}
	return core.Venue{Type: core.VenueOnline}
}

// SchemaTypes returns the @type values of a decoded JSON-LD node. schema.org
// allows @type to be a single string or a list.
func SchemaTypes(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		types := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// addressCountry is either a country code string or a Country object.
func countryField(v any) string {
	switch c := v.(type) {
	case string:
		return strings.TrimSpace(c)
	case map[string]any:
		return stringField(c, "name")
	}
	return ""
}

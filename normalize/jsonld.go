package normalize

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/extract"
)

// UntitledEvent is used when structured data carries no name.
const UntitledEvent = "Untitled Event"

var schemaDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// JSONLD reads schema.org Event objects embedded in
// <script type="application/ld+json"> blocks. Blocks that fail to decode are
// skipped; the first Event found wins.
type JSONLD struct{}

func (JSONLD) Name() string { return "jsonld" }

func (JSONLD) Parse(in Input, _ string, now time.Time) *core.CanonicalEvent {
	doc, ok := parseHTML(in.HTML)
	if !ok {
		return nil
	}

	var event *core.CanonicalEvent
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if obj := findEventNode(data); obj != nil {
			event = eventFromJSONLD(obj, now)
			return false
		}
		return true
	})
	return event
}

// findEventNode locates an Event in a decoded JSON-LD value: the value
// itself, the first Event in a list, or the first Event in an @graph.
func findEventNode(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if isEventType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findEventNode(graph)
		}
	case []any:
		for _, item := range v {
			if obj := findEventNode(item); obj != nil {
				return obj
			}
		}
	}
	return nil
}

// isEventType accepts Event and its schema.org subtypes (BusinessEvent,
// EducationEvent, ...).
func isEventType(v any) bool {
	return slices.ContainsFunc(extract.SchemaTypes(v), func(t string) bool {
		return t == "Event" || strings.HasSuffix(t, "Event")
	})
}

func eventFromJSONLD(obj map[string]any, now time.Time) *core.CanonicalEvent {
	title := stringValue(obj["name"])
	if title == "" {
		title = UntitledEvent
	}
	event := core.NewEvent(title, now)

	description := stringValue(obj["description"])
	event.Description = description

	start, tz, ok := parseSchemaDate(obj["startDate"])
	if !ok {
		start, tz = now, core.DefaultTimezone
	}
	end := start
	if raw, present := obj["endDate"]; present && raw != nil && raw != "" {
		if parsed, _, ok := parseSchemaDate(raw); ok {
			end = parsed
		} else {
			end = now
		}
	}
	event.StartUTC, event.EndUTC, event.Timezone = start, end, tz

	event.Venue = extract.StructuredVenue(obj["location"])
	if event.Venue.Type == core.VenueOnline {
		event.OnlineURL = stringValue(obj["url"])
	}

	event.Organizer = organizerFromJSONLD(obj["organizer"])
	event.Registration = registrationFromOffers(obj["offers"])
	if capacity, ok := intValue(obj["maximumAttendeeCapacity"]); ok {
		event.Registration.Capacity = &capacity
	}
	if remaining, ok := intValue(obj["remainingAttendeeCapacity"]); ok {
		event.Registration.SpotsRemaining = &remaining
	}

	event.PitchSlots = extract.PitchSlots(description, now)
	event.Tags = extract.Tags(description)
	return event
}

// parseSchemaDate parses an ISO 8601 date or date-time and returns it in UTC
// along with a display label for its original offset.
func parseSchemaDate(v any) (time.Time, string, bool) {
	s := stringValue(v)
	if s == "" {
		return time.Time{}, "", false
	}
	for _, layout := range schemaDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		label := core.DefaultTimezone
		if _, offset := t.Zone(); offset != 0 {
			label = t.Format("-07:00")
		}
		return t.UTC(), label, true
	}
	return time.Time{}, "", false
}

func organizerFromJSONLD(v any) core.Organizer {
	org := core.Organizer{
		Name:             core.DefaultOrganizerName,
		CredibilityScore: core.DefaultCredibility,
	}
	switch o := v.(type) {
	case []any:
		if len(o) > 0 {
			return organizerFromJSONLD(o[0])
		}
	case string:
		if name := strings.TrimSpace(o); name != "" {
			org.Name = name
		}
	case map[string]any:
		if name := stringValue(o["name"]); name != "" {
			org.Name = name
		}
		org.ContactEmail = strings.TrimPrefix(stringValue(o["email"]), "mailto:")
		org.Website = stringValue(o["url"])
	}
	return org
}

// registrationFromOffers maps an Offer (or the first of a list) onto a
// Registration. A zero price means a free event; anything else is ticketed.
func registrationFromOffers(v any) core.Registration {
	var offer map[string]any
	switch o := v.(type) {
	case map[string]any:
		offer = o
	case []any:
		if len(o) > 0 {
			offer, _ = o[0].(map[string]any)
		}
	}

	price, _ := priceValue(offer["price"])
	if price < 0 {
		price = 0
	}
	reg := core.Registration{
		Type:     core.RegistrationTicket,
		URL:      stringValue(offer["url"]),
		Price:    price,
		Currency: stringValue(offer["priceCurrency"]),
	}
	if price == 0 {
		reg.Type = core.RegistrationFree
	}
	if reg.Currency == "" {
		reg.Currency = core.DefaultCurrency
	}
	if deadline, _, ok := parseSchemaDate(offer["validThrough"]); ok {
		reg.Deadline = &deadline
	}
	return reg
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// priceValue accepts finite prices encoded as numbers or numeric strings.
func priceValue(v any) (float64, bool) {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func intValue(v any) (int, bool) {
	f, ok := priceValue(v)
	if !ok || f < 0 {
		return 0, false
	}
	return int(f), true
}

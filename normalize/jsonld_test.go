package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/pitchfinder/core"
)

func ldPage(blocks ...string) string {
	page := "<html><head>"
	for _, b := range blocks {
		page += `<script type="application/ld+json">` + b + `</script>`
	}
	return page + "</head><body></body></html>"
}

func TestJSONLD_Parse(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		check func(t *testing.T, e *core.CanonicalEvent)
	}{
		{
			name: "array of nodes",
			html: ldPage(`[{"@type":"Organization","name":"X"},{"@type":"Event","name":"Array Event","startDate":"2026-02-01"}]`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, "Array Event", e.Title)
				assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), e.StartUTC)
			},
		},
		{
			name: "graph with subtype",
			html: ldPage(`{"@context":"https://schema.org","@graph":[{"@type":"WebPage"},{"@type":["BusinessEvent"],"name":"Graph Event"}]}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, "Graph Event", e.Title)
			},
		},
		{
			name: "malformed block is skipped",
			html: ldPage(`{not json`, `{"@type":"Event","name":"Second Block"}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, "Second Block", e.Title)
			},
		},
		{
			name: "defaults when fields are missing",
			html: ldPage(`{"@type":"Event"}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, UntitledEvent, e.Title)
				assert.Equal(t, fixedNow, e.StartUTC)
				assert.Equal(t, fixedNow, e.EndUTC)
				assert.Equal(t, core.VenueOnline, e.Venue.Type)
				assert.Equal(t, core.DefaultOrganizerName, e.Organizer.Name)
				assert.Equal(t, core.RegistrationFree, e.Registration.Type)
				assert.Equal(t, core.DefaultCurrency, e.Registration.Currency)
				assert.Nil(t, e.PitchSlots)
			},
		},
		{
			name: "offset start keeps label and converts to UTC",
			html: ldPage(`{"@type":"Event","name":"IST","startDate":"2026-03-01T18:30:00+05:30"}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), e.StartUTC)
				assert.Equal(t, "+05:30", e.Timezone)
			},
		},
		{
			name: "unparseable start defaults to now",
			html: ldPage(`{"@type":"Event","name":"Bad Date","startDate":"next tuesday"}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, fixedNow, e.StartUTC)
			},
		},
		{
			name: "offer list with numeric price",
			html: ldPage(`{"@type":"Event","name":"Paid","offers":[{"price":25,"priceCurrency":"EUR"},{"price":0}]}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, core.RegistrationTicket, e.Registration.Type)
				assert.Equal(t, 25.0, e.Registration.Price)
				assert.Equal(t, "EUR", e.Registration.Currency)
			},
		},
		{
			name: "negative price clamps to free",
			html: ldPage(`{"@type":"Event","name":"Odd","offers":{"price":"-10"}}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, 0.0, e.Registration.Price)
				assert.Equal(t, core.RegistrationFree, e.Registration.Type)
			},
		},
		{
			name: "non-finite price is ignored",
			html: ldPage(`{"@type":"Event","name":"NaN Price","offers":{"price":"NaN"}}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, 0.0, e.Registration.Price)
				_, err := core.EncodeEvent(e)
				assert.NoError(t, err)
			},
		},
		{
			name: "infinite price is ignored",
			html: ldPage(`{"@type":"Event","name":"Inf Price","offers":{"price":"Infinity"}}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, 0.0, e.Registration.Price)
			},
		},
		{
			name: "virtual location sets online url",
			html: ldPage(`{"@type":"Event","name":"Web","url":"https://stream.example","location":{"@type":"VirtualLocation"}}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, core.VenueOnline, e.Venue.Type)
				assert.Equal(t, "https://stream.example", e.OnlineURL)
			},
		},
		{
			name: "capacity fields",
			html: ldPage(`{"@type":"Event","name":"Cap","maximumAttendeeCapacity":200,"remainingAttendeeCapacity":"15"}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				require.NotNil(t, e.Registration.Capacity)
				require.NotNil(t, e.Registration.SpotsRemaining)
				assert.Equal(t, 200, *e.Registration.Capacity)
				assert.Equal(t, 15, *e.Registration.SpotsRemaining)
			},
		},
		{
			name: "organizer list and mailto",
			html: ldPage(`{"@type":"Event","name":"Org","organizer":[{"name":"Angels","email":"mailto:a@b.example","url":"https://angels.example"}]}`),
			check: func(t *testing.T, e *core.CanonicalEvent) {
				assert.Equal(t, "Angels", e.Organizer.Name)
				assert.Equal(t, "a@b.example", e.Organizer.ContactEmail)
				assert.Equal(t, "https://angels.example", e.Organizer.Website)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := JSONLD{}.Parse(Input{HTML: tt.html}, "test", fixedNow)
			require.NotNil(t, event)
			tt.check(t, event)
		})
	}
}

func TestJSONLD_NoEvent(t *testing.T) {
	for _, page := range []string{
		"",
		ldPage(`{"@type":"Organization","name":"Not an event"}`),
		ldPage(`{broken`),
		"<html><body><h1>Plain</h1></body></html>",
	} {
		assert.Nil(t, JSONLD{}.Parse(Input{HTML: page}, "test", fixedNow))
	}
}

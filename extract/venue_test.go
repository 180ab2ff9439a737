package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/pitchfinder/core"
)

func TestVenue(t *testing.T) {
	tests := []struct {
		name string
		text string
		want core.Venue
	}{
		{
			name: "online cue",
			text: "Join us online for a pitch night",
			want: core.Venue{Type: core.VenueOnline, Name: OnlineVenueName},
		},
		{
			name: "webinar plural",
			text: "A series of Webinars for founders",
			want: core.Venue{Type: core.VenueOnline, Name: OnlineVenueName},
		},
		{
			name: "zoom wins over city",
			text: "Founders in Berlin meet on Zoom",
			want: core.Venue{Type: core.VenueOnline, Name: OnlineVenueName},
		},
		{
			name: "two word city",
			text: "Demo day in San Francisco this spring",
			want: core.Venue{Type: core.VenueInPerson, Name: "Event in San Francisco", City: "San Francisco"},
		},
		{
			name: "month after in is skipped",
			text: "Pitch competition in March in Bangalore",
			want: core.Venue{Type: core.VenueInPerson, Name: "Event in Bangalore", City: "Bangalore"},
		},
		{
			name: "meetup is not a meet cue",
			text: "Startup meetup in Austin",
			want: core.Venue{Type: core.VenueInPerson, Name: "Event in Austin", City: "Austin"},
		},
		{
			name: "no cue defaults to online",
			text: "Founders showcase",
			want: core.Venue{Type: core.VenueOnline},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Venue(tt.text))
		})
	}
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestStructuredVenue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want core.Venue
	}{
		{
			name: "place with postal address",
			raw: `{"@type":"Place","name":"Hub","address":{"streetAddress":"1 MG Road",
				"addressLocality":"Bangalore","addressCountry":"India"}}`,
			want: core.Venue{Type: core.VenueInPerson, Name: "Hub", Address: "1 MG Road", City: "Bangalore", Country: "India"},
		},
		{
			name: "place with string address",
			raw:  `{"@type":"Place","name":"Hub","address":"1 MG Road, Bangalore"}`,
			want: core.Venue{Type: core.VenueInPerson, Name: "Hub", Address: "1 MG Road, Bangalore"},
		},
		{
			name: "country object",
			raw:  `{"@type":"Place","address":{"addressLocality":"Austin","addressCountry":{"@type":"Country","name":"US"}}}`,
			want: core.Venue{Type: core.VenueInPerson, City: "Austin", Country: "US"},
		},
		{
			name: "virtual location",
			raw:  `{"@type":"VirtualLocation","url":"https://zoom.example/j/1"}`,
			want: core.Venue{Type: core.VenueOnline, Name: OnlineVenueName},
		},
		{
			name: "list takes first",
			raw:  `[{"@type":["Place"],"name":"Hall"},{"@type":"VirtualLocation"}]`,
			want: core.Venue{Type: core.VenueInPerson, Name: "Hall"},
		},
		{
			name: "bare string",
			raw:  `"Convention Center"`,
			want: core.Venue{Type: core.VenueInPerson, Name: "Convention Center", Address: "Convention Center"},
		},
		{
			name: "unknown type",
			raw:  `{"@type":"Thing"}`,
			want: core.Venue{Type: core.VenueOnline},
		},
		{
			name: "absent",
			raw:  `null`,
			want: core.Venue{Type: core.VenueOnline},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StructuredVenue(decode(t, tt.raw)))
		})
	}
}

func TestSchemaTypes(t *testing.T) {
	assert.Equal(t, []string{"Event"}, SchemaTypes("Event"))
	assert.Equal(t, []string{"Thing", "Event"}, SchemaTypes([]any{"Thing", 7.0, "Event"}))
	assert.Nil(t, SchemaTypes(nil))
}

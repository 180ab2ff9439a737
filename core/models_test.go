package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func TestNewEvent_Defaults(t *testing.T) {
	event := NewEvent("Demo Day", testNow)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Demo Day", event.Title)
	assert.Equal(t, StatusActive, event.Status)
	assert.Equal(t, DefaultTimezone, event.Timezone)
	assert.Equal(t, VenueOnline, event.Venue.Type)
	assert.Equal(t, DefaultCurrency, event.Registration.Currency)
	assert.Equal(t, 0.0, event.Registration.Price)
	assert.Equal(t, DefaultOrganizerName, event.Organizer.Name)
	assert.Equal(t, DefaultCredibility, event.Organizer.CredibilityScore)
	assert.Empty(t, event.Tags)
	assert.Empty(t, event.Sources)
	assert.False(t, event.HasPitchSlots())
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a := NewEvent("same", testNow)
	b := NewEvent("same", testNow)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSearchQuery_Limit(t *testing.T) {
	q := &SearchQuery{}
	assert.Equal(t, DefaultMaxResults, q.Limit())

	q.MaxResults = 3
	assert.Equal(t, 3, q.Limit())
}

func TestEncodeDecodeEvent(t *testing.T) {
	event := NewEvent("Fintech Pitch Night", testNow)
	count := 8
	event.PitchSlots = &PitchSlots{Available: true, SlotCount: &count}
	event.Tags = []string{"fintech"}

	doc, err := EncodeEvent(event)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"event_id"`)
	assert.Contains(t, string(doc), `"slot_count":8`)

	decoded, err := DecodeEvent(doc)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, 8, *decoded.PitchSlots.SlotCount)
	assert.True(t, decoded.StartUTC.Equal(event.StartUTC))
}

func TestDecodeEvent_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "{nope"},
		{name: "missing id", doc: `{"title":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestDedupKey(t *testing.T) {
	a := NewEvent("  Demo   Day ", testNow)
	b := NewEvent("demo day", testNow.Add(3*time.Hour))
	c := NewEvent("demo day", testNow.AddDate(0, 0, 1))

	assert.Equal(t, "demo day|2026-01-10", DedupKey(a))
	assert.Equal(t, DedupKey(a), DedupKey(b))
	assert.NotEqual(t, DedupKey(a), DedupKey(c))
}

func TestMergeSources(t *testing.T) {
	existing := NewEvent("Demo Day", testNow)
	existing.Sources = []EventSource{{Source: "tavily", SourceURL: "https://a.example"}}
	existing.Tags = []string{"seed"}

	incoming := NewEvent("Demo Day", testNow)
	incoming.Sources = []EventSource{{Source: "eventbrite", SourceURL: "https://b.example"}}
	incoming.Tags = []string{"seed", "fintech"}
	incoming.Organizer.Name = "Acme Ventures"
	incoming.Organizer.ContactEmail = "hi@acme.example"

	merged := MergeSources(existing, incoming)

	require.Same(t, existing, merged)
	require.Len(t, merged.Sources, 2)
	assert.Equal(t, "tavily", merged.Sources[0].Source)
	assert.Equal(t, "eventbrite", merged.Sources[1].Source)
	assert.Equal(t, []string{"seed", "fintech"}, merged.Tags)
	assert.Equal(t, "Acme Ventures", merged.Organizer.Name)
	assert.Equal(t, "hi@acme.example", merged.Organizer.ContactEmail)
}

func TestDedupKey_UncertainDateUsesURL(t *testing.T) {
	found := func(now time.Time) *CanonicalEvent {
		e := NewEvent("Founder Meetup", now)
		e.StartUTC = now.AddDate(0, 0, 30)
		e.Tags = []string{TagDateUncertain}
		e.Sources = []EventSource{{Source: "tavily", SourceURL: "https://lu.ma/founders"}}
		return e
	}

	today := found(testNow)
	nextWeek := found(testNow.AddDate(0, 0, 7))
	assert.Equal(t, "founder meetup|https://lu.ma/founders", DedupKey(today))
	assert.Equal(t, DedupKey(today), DedupKey(nextWeek))

	// Without any URL the assumed date is all there is.
	noURL := found(testNow)
	noURL.Sources = nil
	assert.Equal(t, "founder meetup|2026-02-09", DedupKey(noURL))
}

func TestMergeSources_RepeatFetchRefreshes(t *testing.T) {
	first := testNow
	later := testNow.Add(24 * time.Hour)

	existing := NewEvent("Demo Day", testNow)
	existing.Sources = []EventSource{{Source: "tavily", SourceURL: "https://a.example", FetchedAt: first}}

	incoming := NewEvent("Demo Day", testNow)
	incoming.Sources = []EventSource{{
		Source:    "tavily",
		SourceURL: "https://a.example",
		FetchedAt: later,
		Raw:       RawSnapshot{Title: "Demo Day", Snippet: "updated"},
	}}

	merged := MergeSources(existing, incoming)

	require.Len(t, merged.Sources, 1)
	assert.Equal(t, later, merged.Sources[0].FetchedAt)
	assert.Equal(t, "updated", merged.Sources[0].Raw.Snippet)
	assert.Equal(t, 1, merged.SourceCount())
}

func TestSourceCount(t *testing.T) {
	e := NewEvent("Demo Day", testNow)
	assert.Equal(t, 0, e.SourceCount())

	e.Sources = []EventSource{
		{Source: "tavily", SourceURL: "https://a.example"},
		{Source: "tavily", SourceURL: "https://a.example"},
		{Source: "tavily", SourceURL: "https://b.example"},
		{Source: "eventbrite", SourceURL: "https://a.example"},
	}
	assert.Equal(t, 3, e.SourceCount())
}

func TestMergeSources_Nil(t *testing.T) {
	event := NewEvent("x", testNow)
	assert.Same(t, event, MergeSources(nil, event))
	assert.Same(t, event, MergeSources(event, nil))
}

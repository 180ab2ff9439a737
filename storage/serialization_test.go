package storage

import (
	"testing"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func testEvent() *core.CanonicalEvent {
	e := core.NewEvent("Seed Pitch Night", testNow)
	e.StartUTC = time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC)
	e.EndUTC = e.StartUTC.Add(3 * time.Hour)
	e.Venue = core.Venue{Type: core.VenueInPerson, City: "Austin", Country: "USA"}
	e.PitchSlots = &core.PitchSlots{Available: true}
	e.Tags = []string{"seed", "fintech"}
	return e
}

func TestRecord_RoundTrip(t *testing.T) {
	e := testEvent()
	record, err := NewRecord(e, []float32{0.1, 0.2})
	require.NoError(t, err)

	data, err := MarshalRecord(record)
	require.NoError(t, err)

	decoded, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, []float32{0.1, 0.2}, decoded.Vector)
	assert.Equal(t, record.Metadata, decoded.Metadata)

	event, err := decoded.Event()
	require.NoError(t, err)
	assert.Equal(t, e, event)
}

func TestNewRecord_NilEvent(t *testing.T) {
	_, err := NewRecord(nil, nil)
	assert.ErrorIs(t, err, ErrEventRequired)
}

func TestUnmarshalRecord_Invalid(t *testing.T) {
	_, err := UnmarshalRecord([]byte("{broken"))
	assert.ErrorIs(t, err, ErrSerializationFailed)

	record := &Record{ID: "x", Document: []byte(`{"title":"no id"}`)}
	_, err = record.Event()
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMetadataFor(t *testing.T) {
	m := MetadataFor(testEvent())

	assert.Equal(t, Metadata{
		Title:            "Seed Pitch Night",
		StartUTC:         "2026-01-20T18:00:00Z",
		EndUTC:           "2026-01-20T21:00:00Z",
		VenueType:        core.VenueInPerson,
		City:             "Austin",
		Country:          "USA",
		HasPitchSlots:    true,
		RegistrationType: core.RegistrationRSVP,
		OrganizerName:    core.DefaultOrganizerName,
		Tags:             "seed,fintech",
		Status:           core.StatusActive,
	}, m)
}

func TestFilter_Matches(t *testing.T) {
	m := MetadataFor(testEvent())
	yes, no := true, false

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty filter", filter: Filter{}, want: true},
		{name: "status match", filter: Filter{Status: core.StatusActive}, want: true},
		{name: "status mismatch", filter: Filter{Status: core.StatusCancelled}, want: false},
		{name: "pitch slots required", filter: Filter{HasPitchSlots: &yes}, want: true},
		{name: "pitch slots excluded", filter: Filter{HasPitchSlots: &no}, want: false},
		{name: "venue mismatch", filter: Filter{VenueType: core.VenueOnline}, want: false},
		{name: "all fields", filter: Filter{VenueType: core.VenueInPerson, HasPitchSlots: &yes, Status: core.StatusActive}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(m))
		})
	}
}

func TestCosineSimilarity_Basic(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 0}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}

package websearch

import (
	"testing"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/stretchr/testify/assert"
)

func TestEnhanceQuery(t *testing.T) {
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query core.SearchQuery
		want  string
	}{
		{
			name:  "intent only",
			query: core.SearchQuery{Intent: "seed funding"},
			want:  "seed funding (startup pitch OR pitch event OR demo day)",
		},
		{
			name:  "location wins over region",
			query: core.SearchQuery{Intent: "pitch", Location: "Berlin", Region: "Europe"},
			want:  "pitch in Berlin (startup pitch OR pitch event OR demo day)",
		},
		{
			name:  "region and industries",
			query: core.SearchQuery{Intent: "pitch", Region: "Europe", Industry: []string{"fintech", "ai"}},
			want:  "pitch in Europe fintech ai (startup pitch OR pitch event OR demo day)",
		},
		{
			name:  "date bounds",
			query: core.SearchQuery{Intent: "demo day", DateFrom: &from, DateTo: &to},
			want:  "demo day (startup pitch OR pitch event OR demo day) after:2026-02-01 before:2026-03-31",
		},
		{
			name:  "investor persona uses the same terms",
			query: core.SearchQuery{Intent: "showcase", Persona: core.PersonaInvestor},
			want:  "showcase (startup pitch OR pitch event OR demo day)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnhanceQuery(&tt.query))
		})
	}
}

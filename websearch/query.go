package websearch

import (
	"strings"

	"github.com/poiesic/pitchfinder/core"
)

// DefaultDomains are the event platforms searches are restricted to.
var DefaultDomains = []string{
	"eventbrite.com",
	"meetup.com",
	"linkedin.com",
	"facebook.com",
	"luma.com",
	"lu.ma",
	"partiful.com",
	"eventbrite.co.uk",
	"eventbrite.in",
}

var pitchTerms = []string{"startup pitch", "pitch event", "demo day"}

// EnhanceQuery expands the query intent into a web search string, e.g.
// "seed funding in Berlin fintech (startup pitch OR pitch event OR demo day)
// after:2026-02-01". Location wins over region.
func EnhanceQuery(q *core.SearchQuery) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(q.Intent))

	switch {
	case q.Location != "":
		b.WriteString(" in " + q.Location)
	case q.Region != "":
		b.WriteString(" in " + q.Region)
	}

	if len(q.Industry) > 0 {
		b.WriteString(" " + strings.Join(q.Industry, " "))
	}

	b.WriteString(" (" + strings.Join(pitchTerms, " OR ") + ")")

	if q.DateFrom != nil {
		b.WriteString(" after:" + q.DateFrom.UTC().Format("2006-01-02"))
	}
	if q.DateTo != nil {
		b.WriteString(" before:" + q.DateTo.UTC().Format("2006-01-02"))
	}
	return b.String()
}

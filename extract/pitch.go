package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/pitchfinder/core"
)

// pitchKeywords is deliberately broad. Ranking does the precision work.
var pitchKeywords = []string{
	"pitch", "apply", "demo", "speaker", "present",
	"application", "submit", "slot", "opportunity",
}

// eventKeywords mark text that reads like an event even without a date.
var eventKeywords = []string{
	"summit", "conference", "event", "meetup", "demo day",
	"pitch", "competition", "hackathon", "workshop",
}

var (
	explicitSlotPattern = regexp.MustCompile(`(\d+)\s*pitch\s+slots?\b`)
	slotCountPattern    = regexp.MustCompile(`(\d+)\s*(?:pitch|slot|speaker)`)
)

// PitchSlots detects a pitch opportunity in text. It returns nil unless a
// pitch keyword is present; the slot count and application deadline are
// filled in when they can be found.
func PitchSlots(text string, now time.Time) *core.PitchSlots {
	lower := strings.ToLower(text)
	if !containsAny(lower, pitchKeywords) {
		return nil
	}

	slots := &core.PitchSlots{Available: true}
	if n, ok := slotCount(lower); ok {
		slots.SlotCount = &n
	}
	slots.ApplicationDeadline = Deadline(text, now)
	return slots
}

// slotCount prefers an explicit "N pitch slots" phrase over any other number
// next to a keyword.
func slotCount(lower string) (int, bool) {
	for _, re := range []*regexp.Regexp{explicitSlotPattern, slotCountPattern} {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// LooksLikeEvent reports whether text carries an event-indicating keyword.
func LooksLikeEvent(text string) bool {
	return containsAny(strings.ToLower(text), eventKeywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

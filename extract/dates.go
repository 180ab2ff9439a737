package extract

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MaxDates is the number of dates Dates returns at most (start and end).
const MaxDates = 2

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

type datePattern struct {
	name  string
	re    *regexp.Regexp
	parse func(groups []string, now time.Time) (time.Time, bool)
}

// datePatterns are tried in order; the first pattern that yields at least
// one parseable date wins and the others are not consulted.
var datePatterns = []datePattern{
	{
		name: "iso",
		re:   regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})(?:T|\b)`),
		parse: func(g []string, _ time.Time) (time.Time, bool) {
			return civil(atoi(g[1]), atoi(g[2]), atoi(g[3]))
		},
	},
	{
		name: "month/day/year",
		re:   regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		parse: func(g []string, _ time.Time) (time.Time, bool) {
			return civil(atoi(g[3]), atoi(g[1]), atoi(g[2]))
		},
	},
	{
		name: "day-month-year",
		re:   regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`),
		parse: func(g []string, _ time.Time) (time.Time, bool) {
			return civil(atoi(g[3]), atoi(g[2]), atoi(g[1]))
		},
	},
	{
		name: "month day, year",
		re:   regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
		parse: func(g []string, _ time.Time) (time.Time, bool) {
			m, ok := monthFromWord(g[1])
			if !ok {
				return time.Time{}, false
			}
			return civil(atoi(g[3]), m, atoi(g[2]))
		},
	},
	{
		name: "day month year",
		re:   regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,9})\.?,?\s+(\d{4})\b`),
		parse: func(g []string, _ time.Time) (time.Time, bool) {
			m, ok := monthFromWord(g[2])
			if !ok {
				return time.Time{}, false
			}
			return civil(atoi(g[3]), m, atoi(g[1]))
		},
	},
	{
		name: "month day",
		re:   regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`),
		parse: func(g []string, now time.Time) (time.Time, bool) {
			m, ok := monthFromWord(g[1])
			if !ok {
				return time.Time{}, false
			}
			return upcoming(m, atoi(g[2]), now)
		},
	},
	{
		name: "day month",
		re:   regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,9})\b`),
		parse: func(g []string, now time.Time) (time.Time, bool) {
			m, ok := monthFromWord(g[2])
			if !ok {
				return time.Time{}, false
			}
			return upcoming(m, atoi(g[1]), now)
		},
	},
}

var deadlinePattern = regexp.MustCompile(
	`(?i)deadline(?:\s+is)?[:\s]+([a-z]+\.? \d{1,2}(?:st|nd|rd|th)?,? \d{4}|\d{4}-\d{2}-\d{2})`)

// Dates returns up to two calendar dates found in text, earliest first.
//
// Patterns are tried in priority order and never mixed within one call.
// Identical literal matches count once. Dates written without a year assume
// the current year and roll forward a year when that would already be past.
// Matches that do not form a real date are dropped. An empty result is a
// valid outcome.
func Dates(text string, now time.Time) []time.Time {
	now = now.UTC()
	for _, p := range datePatterns {
		found := matchPattern(p, text, now)
		if len(found) > 0 {
			slices.SortFunc(found, func(a, b time.Time) int { return a.Compare(b) })
			return found
		}
	}
	return nil
}

func matchPattern(p datePattern, text string, now time.Time) []time.Time {
	var (
		found []time.Time
		seen  = make(map[string]struct{})
	)
	for _, groups := range p.re.FindAllStringSubmatch(text, -1) {
		literal := strings.ToLower(groups[0])
		if _, dup := seen[literal]; dup {
			continue
		}
		seen[literal] = struct{}{}

		t, ok := p.parse(groups, now)
		if !ok {
			continue
		}
		found = append(found, t)
		if len(found) == MaxDates {
			break
		}
	}
	return found
}

// Deadline finds the first "deadline" cue immediately followed by a date
// expression and returns that date.
func Deadline(text string, now time.Time) *time.Time {
	m := deadlinePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	dates := Dates(m[1], now)
	if len(dates) == 0 {
		return nil
	}
	return &dates[0]
}

// StripDeadline removes every "deadline <date>" phrase so the remaining text
// can be searched for the event's own dates.
func StripDeadline(text string) string {
	return deadlinePattern.ReplaceAllString(text, " ")
}

// EventDates extracts event dates from text, ignoring application deadlines.
func EventDates(text string, now time.Time) []time.Time {
	return Dates(StripDeadline(text), now)
}

// monthFromWord resolves a month name or an abbreviation of at least three
// letters ("Sept", "Dec").
func monthFromWord(word string) (int, bool) {
	w := strings.ToLower(strings.TrimSuffix(word, "."))
	if len(w) < 3 {
		return 0, false
	}
	for i, name := range monthNames {
		if strings.HasPrefix(name, w) {
			return i + 1, true
		}
	}
	return 0, false
}

func isMonthName(word string) bool {
	return slices.Contains(monthNames, strings.ToLower(word))
}

// civil builds a UTC midnight instant, rejecting dates that time.Date would
// silently normalize (February 30).
func civil(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func upcoming(month, day int, now time.Time) (time.Time, bool) {
	t, ok := civil(now.Year(), month, day)
	if !ok {
		// February 29 outside a leap year may still exist next year.
		return civil(now.Year()+1, month, day)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if t.Before(today) {
		return civil(now.Year()+1, month, day)
	}
	return t, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

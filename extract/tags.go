package extract

import (
	"regexp"
	"strings"

	"github.com/poiesic/pitchfinder/core"
)

// Tag labels emitted by Tags, besides the industry labels which double as
// query industry filters.
const (
	TagPreSeed       = "pre-seed"
	TagSeed          = "seed"
	TagSeriesA       = "series-a"
	TagDemoDay       = "demo-day"
	TagCompetition   = "competition"
	TagDateUncertain = core.TagDateUncertain
)

type keywordGroup struct {
	label    string
	keywords []string
}

// tagGroups is evaluated in order: funding stage, industry, event type.
var tagGroups = []keywordGroup{
	{TagPreSeed, []string{"pre-seed", "preseed", "idea stage"}},
	{TagSeed, []string{"seed stage", "seed-stage", "seed funding", "seed round"}},
	{TagSeriesA, []string{"series a", "series-a"}},
	{"fintech", []string{"fintech", "financial technology", "payments"}},
	{"healthtech", []string{"healthtech", "health tech", "medical"}},
	{"saas", []string{"saas", "software as a service"}},
	{"ai", []string{"ai", "artificial intelligence", "machine learning", "ml"}},
	{"ecommerce", []string{"ecommerce", "e-commerce", "retail"}},
	{TagDemoDay, []string{"demo day"}},
	{TagCompetition, []string{"competition"}},
}

type tagMatcher struct {
	label    string
	substr   []string
	patterns []*regexp.Regexp
}

var tagMatchers = compileGroups(tagGroups)

func compileGroups(groups []keywordGroup) []tagMatcher {
	out := make([]tagMatcher, 0, len(groups))
	for _, g := range groups {
		m := tagMatcher{label: g.label}
		for _, kw := range g.keywords {
			if len(kw) <= 3 {
				m.patterns = append(m.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
				continue
			}
			m.substr = append(m.substr, kw)
		}
		out = append(out, m)
	}
	return out
}

func (m tagMatcher) matches(lower string) bool {
	for _, kw := range m.substr {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, re := range m.patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// Tags derives categorical tags from text, case-insensitively. Each label is
// emitted at most once, in table order.
func Tags(text string) []string {
	lower := strings.ToLower(text)
	tags := []string{}
	for _, m := range tagMatchers {
		if m.matches(lower) {
			tags = append(tags, m.label)
		}
	}
	return tags
}

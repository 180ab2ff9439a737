package openai

import "strings"

// isAffirmative reports whether a model answer is a plain "yes". Case,
// surrounding whitespace, quotes and trailing punctuation are ignored;
// anything else counts as no.
func isAffirmative(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	answer = strings.Trim(answer, "\"'`")
	answer = strings.TrimRight(answer, ".!")
	return answer == "yes"
}

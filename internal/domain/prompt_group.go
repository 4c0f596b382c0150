package domain

import "strings"

// PromptGroup binds a set of source-URL patterns to one classification
// prompt template. Groups are matched in configuration order and the
// first group with any pattern appearing as a substring of the source
// URL wins.
type PromptGroup struct {
	Patterns       []string
	PromptTemplate string
	RefetchContent bool
}

// Matches reports whether any of the group's patterns occurs in sourceURL.
func (g PromptGroup) Matches(sourceURL string) bool {
	for _, pattern := range g.Patterns {
		if pattern != "" && strings.Contains(sourceURL, pattern) {
			return true
		}
	}
	return false
}

// MatchPromptGroup returns the first group matching sourceURL,
// preserving first-match-wins order.
func MatchPromptGroup(groups []PromptGroup, sourceURL string) (PromptGroup, bool) {
	for _, group := range groups {
		if group.Matches(sourceURL) {
			return group, true
		}
	}
	return PromptGroup{}, false
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptGroupMatches(t *testing.T) {
	group := PromptGroup{Patterns: []string{"lobste.rs", "news.ycombinator.com"}}

	assert.True(t, group.Matches("https://lobste.rs/rss"))
	assert.True(t, group.Matches("https://news.ycombinator.com/rss"))
	assert.False(t, group.Matches("https://example.com/feed"))
}

func TestPromptGroupIgnoresEmptyPatterns(t *testing.T) {
	group := PromptGroup{Patterns: []string{""}}

	assert.False(t, group.Matches("https://example.com/feed"))
}

func TestMatchPromptGroupFirstMatchWins(t *testing.T) {
	groups := []PromptGroup{
		{Patterns: []string{"example.com"}, PromptTemplate: "first"},
		{Patterns: []string{"example.com", "other.com"}, PromptTemplate: "second"},
	}

	group, ok := MatchPromptGroup(groups, "https://example.com/feed")
	require.True(t, ok)
	assert.Equal(t, "first", group.PromptTemplate)

	group, ok = MatchPromptGroup(groups, "https://other.com/feed")
	require.True(t, ok)
	assert.Equal(t, "second", group.PromptTemplate)
}

func TestMatchPromptGroupNoMatch(t *testing.T) {
	groups := []PromptGroup{
		{Patterns: []string{"example.com"}, PromptTemplate: "first"},
	}

	_, ok := MatchPromptGroup(groups, "https://unrelated.net/feed")
	assert.False(t, ok)
}

package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateShortBodyUnchanged(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "small body", body: "a short article"},
		{name: "exactly at threshold", body: strings.Repeat("x", 3500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.body, Truncate(tt.body))
		})
	}
}

func TestTruncateLongBodyKeepsHeadAndTail(t *testing.T) {
	body := strings.Repeat("a", 5000)
	result := Truncate(body)

	require.NotEqual(t, body, result)
	assert.True(t, strings.HasPrefix(result, strings.Repeat("a", 2500)))
	assert.True(t, strings.HasSuffix(result, strings.Repeat("a", 1000)))
	assert.Contains(t, result, "kept first 2500 and last 1000 characters")

	// Head, marker and tail only; nothing from the middle survives.
	assert.Less(t, len(result), len(body))
}

func TestTruncateMarkerSeparatesHeadAndTail(t *testing.T) {
	head := strings.Repeat("h", 3000)
	tail := strings.Repeat("t", 2000)
	result := Truncate(head + tail)

	require.True(t, strings.HasPrefix(result, strings.Repeat("h", 2500)))
	require.True(t, strings.HasSuffix(result, strings.Repeat("t", 1000)))
	assert.NotContains(t, result, "ht", "head and tail must be separated by the marker")
}

func TestTruncateCountsCharactersNotBytes(t *testing.T) {
	// 4000 three-byte runes would truncate mid-rune under byte counting.
	body := strings.Repeat("日", 4000)
	result := Truncate(body)

	require.True(t, utf8.ValidString(result))
	assert.True(t, strings.HasPrefix(result, strings.Repeat("日", 2500)))
	assert.True(t, strings.HasSuffix(result, strings.Repeat("日", 1000)))
}

func TestTruncateJustOverThreshold(t *testing.T) {
	body := strings.Repeat("z", 3501)
	result := Truncate(body)

	require.NotEqual(t, body, result)
	assert.True(t, strings.HasPrefix(result, strings.Repeat("z", 2500)))
	assert.True(t, strings.HasSuffix(result, strings.Repeat("z", 1000)))
}

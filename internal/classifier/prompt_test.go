package classifier

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/feedsieve/internal/domain"
)

func promptClient(groups []domain.PromptGroup) *Client {
	return &Client{
		groups:     groups,
		httpClient: &http.Client{},
		logger:     testLogger(),
	}
}

func TestBuildPromptUsesMatchingGroup(t *testing.T) {
	groups := []domain.PromptGroup{
		{Patterns: []string{"arxiv.org"}, PromptTemplate: "rate research papers"},
		{Patterns: []string{"lobste.rs"}, PromptTemplate: "rate programming links"},
	}
	client := promptClient(groups)

	prompt := client.buildPrompt(context.Background(), "A Paper", "the body", "https://arxiv.org/list/cs")

	assert.Contains(t, prompt, "rate research papers")
	assert.NotContains(t, prompt, "rate programming links")
	assert.Contains(t, prompt, "Title: A Paper")
	assert.Contains(t, prompt, "Content: the body")
	assert.Contains(t, prompt, `"useful"`)
}

func TestBuildPromptFallsBackToFirstGroup(t *testing.T) {
	groups := []domain.PromptGroup{
		{Patterns: []string{"arxiv.org"}, PromptTemplate: "rate research papers"},
	}
	client := promptClient(groups)

	prompt := client.buildPrompt(context.Background(), "t", "c", "https://unconfigured.example.com/feed")

	assert.Contains(t, prompt, "rate research papers")
}

func TestBuildPromptWithoutGroups(t *testing.T) {
	client := promptClient(nil)

	prompt := client.buildPrompt(context.Background(), "t", "c", "https://example.com/feed")

	assert.Contains(t, prompt, defaultPromptTemplate)
}

package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
)

// defaultPromptTemplate is the last-resort instruction when no prompt
// group is configured at all.
const defaultPromptTemplate = "Decide whether the following content is worth keeping."

// promptFormat wraps a group's template with the content under review
// and the response contract.
const promptFormat = `%s

Analyze the following content.
Title: %s
Content: %s

Return the result strictly as JSON in this exact shape:
{
  "title": "the article title",
  "summary": "a one or two sentence summary of the core content",
  "useful": true,
  "reason": "the specific reason for keeping or filtering this article"
}

Rules:
- return valid JSON only, with no other text
- "useful" must be a boolean: true means keep, false means filter out
- "summary" must be one or two concise sentences
- "reason" must state the concrete grounds for the decision`

// buildPrompt resolves the prompt template for the item's source and
// renders the full prompt. When no group matches, the first configured
// group's template is used and the fallback is logged.
func (c *Client) buildPrompt(ctx context.Context, title, content, sourceURL string) string {
	template := defaultPromptTemplate

	group, ok := domain.MatchPromptGroup(c.groups, sourceURL)
	switch {
	case ok:
		template = group.PromptTemplate
	case len(c.groups) > 0:
		logger.FromContextOrDefault(ctx, c.logger).Warn(
			"no prompt group for source, falling back to first configured prompt",
			slog.String("source_url", sourceURL))
		template = c.groups[0].PromptTemplate
	}

	return fmt.Sprintf(promptFormat, template, title, content)
}

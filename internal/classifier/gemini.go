package classifier

import (
	"context"
	"fmt"

	"github.com/phrazzld/feedsieve/internal/config"
	"google.golang.org/genai"
)

// completeGemini issues a single generation call against the Gemini API
// and returns the raw model text.
func (c *Client) completeGemini(ctx context.Context, endpoint config.LLMEndpointConfig, prompt string) (string, error) {
	client, ok := c.gemini[endpoint.Name]
	if !ok {
		return "", fmt.Errorf("no gemini client initialized for endpoint %s", endpoint.Name)
	}

	generateConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(endpoint.Temperature)),
		MaxOutputTokens: int32(endpoint.MaxTokens),
	}

	resp, err := client.Models.GenerateContent(ctx, endpoint.Model, genai.Text(prompt), generateConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty gemini response", ErrMalformedResponse)
	}

	return text, nil
}

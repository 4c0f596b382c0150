package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/phrazzld/feedsieve/internal/config"
)

// chatMessage is one message in an OpenAI-compatible chat request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for an OpenAI-compatible
// chat completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse is the subset of the chat completions response the
// client needs.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// completeChat issues a single chat completion call against an
// OpenAI-compatible endpoint and returns the raw model text.
func (c *Client) completeChat(ctx context.Context, endpoint config.LLMEndpointConfig, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       endpoint.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: endpoint.Temperature,
		MaxTokens:   endpoint.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := strings.TrimSuffix(endpoint.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+endpoint.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if endpoint.Provider == ProviderOpenRouter {
		// OpenRouter attributes traffic by these headers.
		req.Header.Set("HTTP-Referer", "https://feedsieve.local")
		req.Header.Set("X-Title", "feedsieve")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat completion returned %s: %s",
			resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode chat response: %v", ErrMalformedResponse, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrMalformedResponse)
	}

	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: first choice has no message content", ErrMalformedResponse)
	}

	return content, nil
}

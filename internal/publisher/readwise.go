package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/feedsieve/internal/config"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
	"github.com/phrazzld/feedsieve/internal/redact"
)

// ErrPublishFailed is returned when the downstream save call fails,
// whether by transport error or non-2xx response.
var ErrPublishFailed = errors.New("failed to publish article downstream")

// Publisher defines the interface for the downstream save API.
type Publisher interface {
	// Save submits the article URL downstream and returns the
	// downstream reference ID when the response carries one.
	Save(ctx context.Context, articleURL string) (string, error)
}

// ReadwiseClient publishes articles to the Readwise Reader save API.
// Only the URL is sent; Reader fetches the article content itself.
type ReadwiseClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure ReadwiseClient implements the Publisher interface
var _ Publisher = (*ReadwiseClient)(nil)

// NewReadwiseClient creates a Readwise Reader client from configuration.
// If log is nil, a default logger will be used.
func NewReadwiseClient(cfg config.ReadwiseConfig, log *slog.Logger) *ReadwiseClient {
	if log == nil {
		log = slog.Default()
	}

	return &ReadwiseClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.With(slog.String("component", "readwise_client")),
	}
}

// saveRequest is the Reader save API request body.
type saveRequest struct {
	URL        string `json:"url"`
	Location   string `json:"location"`
	Category   string `json:"category"`
	SavedUsing string `json:"saved_using"`
}

// documentID decodes the save API document id, which comes back as a
// number on some deployments and a string on others.
type documentID string

// UnmarshalJSON implements json.Unmarshaler.
func (d *documentID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = documentID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = documentID(n.String())
	return nil
}

// saveResponse is the subset of the save API response the client needs.
type saveResponse struct {
	ID documentID `json:"id"`
}

// Save implements the Publisher interface.
func (c *ReadwiseClient) Save(ctx context.Context, articleURL string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	body, err := json.Marshal(saveRequest{
		URL:        articleURL,
		Location:   "feed",
		Category:   "article",
		SavedUsing: "feedsieve",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal save request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/save/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build save request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("readwise save request failed",
			slog.String("error", err.Error()),
			slog.String("article_url", articleURL))
		return "", fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("readwise save rejected",
			slog.String("status", resp.Status),
			slog.String("article_url", articleURL),
			slog.String("detail", redact.String(strings.TrimSpace(string(detail)))))
		return "", fmt.Errorf("%w: readwise returned %s", ErrPublishFailed, resp.Status)
	}

	// The response body is informative only; a 2xx with an unreadable
	// body still counts as a successful save.
	var parsed saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Warn("could not decode readwise save response",
			slog.String("error", err.Error()),
			slog.String("article_url", articleURL))
		return "", nil
	}

	log.Info("article published to readwise",
		slog.String("article_url", articleURL),
		slog.String("readwise_id", string(parsed.ID)))
	return string(parsed.ID), nil
}

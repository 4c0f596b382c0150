// Package fetcher retrieves and extracts readable article text for
// prompt groups that prefer a fresh copy over the feed-delivered body.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
)

// Common errors returned by the fetcher package
var (
	// ErrNotHTML is returned when the article URL serves something
	// other than an HTML document.
	ErrNotHTML = errors.New("article URL did not serve HTML")

	// ErrNoContent is returned when readability extraction produced
	// no usable text.
	ErrNoContent = errors.New("no readable content extracted")
)

// userAgent mirrors a desktop browser; several publishers serve reduced
// or empty pages to unknown clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher defines the interface for refetching article content.
type Fetcher interface {
	// Fetch downloads the article at the given URL and returns its
	// extracted plain text.
	Fetch(ctx context.Context, articleURL string) (string, error)
}

// ReadabilityFetcher downloads pages and extracts the article text
// with the readability algorithm.
type ReadabilityFetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure ReadabilityFetcher implements the Fetcher interface
var _ Fetcher = (*ReadabilityFetcher)(nil)

// NewReadabilityFetcher creates a fetcher with a 30 second client
// timeout. If log is nil, a default logger will be used.
func NewReadabilityFetcher(log *slog.Logger) *ReadabilityFetcher {
	if log == nil {
		log = slog.Default()
	}

	return &ReadabilityFetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.With(slog.String("component", "fetcher")),
	}
}

// Fetch implements the Fetcher interface.
func (f *ReadabilityFetcher) Fetch(ctx context.Context, articleURL string) (string, error) {
	log := logger.FromContextOrDefault(ctx, f.logger)

	parsedURL, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("invalid article URL %q: %w", articleURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article fetch returned %s", resp.Status)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("%w: content type %q", ErrNotHTML, contentType)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", ErrNoContent
	}

	log.Info("article content refetched",
		slog.String("article_url", articleURL),
		slog.Int("content_length", len(text)))
	return text, nil
}

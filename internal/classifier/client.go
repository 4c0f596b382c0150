package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/feedsieve/internal/config"
	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
	"github.com/phrazzld/feedsieve/internal/redact"
	"google.golang.org/genai"
)

// Provider tags understood by the client. Anything that is not gemini
// speaks the OpenAI-compatible chat completions protocol.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderCustom     = "custom"
)

// Client rotates classification calls across the enabled endpoints.
// The rotation cursor advances on every call regardless of outcome:
// the goal is spreading load over providers to respect their rate
// limits, not failover.
type Client struct {
	endpoints []config.LLMEndpointConfig
	groups    []domain.PromptGroup
	// cursor is not guarded by a lock: processing is strictly
	// sequential, one classification call at a time.
	cursor     int
	httpClient *http.Client
	gemini     map[string]*genai.Client
	logger     *slog.Logger
}

// Ensure Client implements the Classifier interface
var _ Classifier = (*Client)(nil)

// New creates a classification client over the enabled endpoints of cfg.
// Returns ErrNoEndpoints if every endpoint is disabled.
func New(ctx context.Context, cfg config.LLMConfig, groups []domain.PromptGroup, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	var enabled []config.LLMEndpointConfig
	for _, endpoint := range cfg.Endpoints {
		if endpoint.Enabled {
			enabled = append(enabled, endpoint)
		}
	}

	if len(enabled) == 0 {
		return nil, ErrNoEndpoints
	}

	geminiClients := make(map[string]*genai.Client)
	for _, endpoint := range enabled {
		if endpoint.Provider != ProviderGemini {
			continue
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  endpoint.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client for endpoint %s: %w", endpoint.Name, err)
		}
		geminiClients[endpoint.Name] = client
	}

	log.Info("classification client initialized",
		"endpoint_count", len(enabled),
		"prompt_group_count", len(groups))

	return &Client{
		endpoints: enabled,
		groups:    groups,
		// Per-attempt timeouts come from the endpoint configuration,
		// so the shared transport carries none of its own.
		httpClient: &http.Client{},
		gemini:     geminiClients,
		logger:     log.With(slog.String("component", "classifier")),
	}, nil
}

// Classify implements the Classifier interface.
func (c *Client) Classify(ctx context.Context, title, content, sourceURL string) domain.ClassificationVerdict {
	endpoint := c.nextEndpoint()
	log := logger.FromContextOrDefault(ctx, c.logger).With(
		slog.String("endpoint", endpoint.Name),
		slog.String("provider", endpoint.Provider))

	prompt := c.buildPrompt(ctx, title, content, sourceURL)

	raw, err := c.complete(ctx, endpoint, prompt)
	if err != nil {
		log.Error("classification call failed",
			slog.String("error", redact.Error(err)),
			slog.String("title", title))
		return domain.FallbackVerdict(title, err)
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		log.Error("failed to parse classification response",
			slog.String("error", err.Error()),
			slog.String("title", title))
		return domain.FallbackVerdict(title, err)
	}

	log.Info("classification complete",
		slog.String("title", title),
		slog.Bool("useful", verdict.Useful))
	return verdict
}

// nextEndpoint selects the next endpoint by round-robin.
func (c *Client) nextEndpoint() config.LLMEndpointConfig {
	endpoint := c.endpoints[c.cursor]
	c.cursor = (c.cursor + 1) % len(c.endpoints)
	return endpoint
}

// complete issues the completion call with per-attempt timeouts,
// retrying transient failures against the same endpoint up to its
// configured retry limit. There is no endpoint reselection mid-burst.
func (c *Client) complete(ctx context.Context, endpoint config.LLMEndpointConfig, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= endpoint.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, endpoint.Timeout())

		var raw string
		var err error
		if endpoint.Provider == ProviderGemini {
			raw, err = c.completeGemini(attemptCtx, endpoint, prompt)
		} else {
			raw, err = c.completeChat(attemptCtx, endpoint, prompt)
		}
		cancel()

		if err == nil {
			return raw, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		if attempt < endpoint.MaxRetries {
			c.logger.Warn("classification attempt failed, retrying",
				slog.String("endpoint", endpoint.Name),
				slog.Int("attempt", attempt+1),
				slog.String("error", redact.Error(err)))
		}
	}

	return "", fmt.Errorf("%w: endpoint %s after %d attempts: %v",
		ErrEndpointExhausted, endpoint.Name, endpoint.MaxRetries+1, lastErr)
}

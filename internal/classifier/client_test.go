package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/feedsieve/internal/config"
	"github.com/phrazzld/feedsieve/internal/domain"
)

const verdictJSON = `{"useful": true, "reason": "novel", "summary": "a finding", "title": "A Paper"}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGroups() []domain.PromptGroup {
	return []domain.PromptGroup{
		{Patterns: []string{"example.org"}, PromptTemplate: "judge this"},
	}
}

// chatCompletionResponse renders an OpenAI-compatible response carrying
// the given model output.
func chatCompletionResponse(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func testEndpoint(name, baseURL string) config.LLMEndpointConfig {
	return config.LLMEndpointConfig{
		Name:           name,
		Provider:       ProviderOpenAI,
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "test-model",
		TimeoutSeconds: 5,
		MaxRetries:     0,
		Temperature:    0.2,
		MaxTokens:      500,
		Enabled:        true,
	}
}

func newTestClient(t *testing.T, endpoints ...config.LLMEndpointConfig) *Client {
	t.Helper()
	client, err := New(context.Background(), config.LLMConfig{Endpoints: endpoints}, testGroups(), testLogger())
	require.NoError(t, err)
	return client
}

func TestNewRequiresEnabledEndpoint(t *testing.T) {
	endpoint := testEndpoint("off", "http://localhost:1")
	endpoint.Enabled = false

	_, err := New(context.Background(), config.LLMConfig{Endpoints: []config.LLMEndpointConfig{endpoint}}, testGroups(), testLogger())

	assert.ErrorIs(t, err, ErrNoEndpoints)
}

func TestClassifyParsesModelResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "judge this")
		assert.Contains(t, req.Messages[0].Content, "the article body")

		fmt.Fprint(w, chatCompletionResponse(verdictJSON))
	}))
	defer srv.Close()

	client := newTestClient(t, testEndpoint("primary", srv.URL))

	verdict := client.Classify(context.Background(), "A Paper", "the article body", "https://example.org/feed")

	assert.True(t, verdict.Useful)
	assert.Equal(t, "novel", verdict.Reason)
	assert.Equal(t, "a finding", verdict.Summary)
}

func TestClassifyRotatesEndpoints(t *testing.T) {
	var hitsA, hitsB atomic.Int64

	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hitsA.Add(1)
		fmt.Fprint(w, chatCompletionResponse(verdictJSON))
	}))
	defer srvA.Close()

	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hitsB.Add(1)
		fmt.Fprint(w, chatCompletionResponse(verdictJSON))
	}))
	defer srvB.Close()

	client := newTestClient(t, testEndpoint("a", srvA.URL), testEndpoint("b", srvB.URL))

	for i := 0; i < 4; i++ {
		client.Classify(context.Background(), "t", "c", "https://example.org/feed")
	}

	assert.Equal(t, int64(2), hitsA.Load())
	assert.Equal(t, int64(2), hitsB.Load())
}

func TestClassifyCursorAdvancesOnFailure(t *testing.T) {
	var hitsBroken, hitsHealthy atomic.Int64

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hitsBroken.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hitsHealthy.Add(1)
		fmt.Fprint(w, chatCompletionResponse(verdictJSON))
	}))
	defer healthy.Close()

	client := newTestClient(t, testEndpoint("broken", broken.URL), testEndpoint("healthy", healthy.URL))

	first := client.Classify(context.Background(), "t", "c", "https://example.org/feed")
	second := client.Classify(context.Background(), "t", "c", "https://example.org/feed")

	// A failed endpoint is not retried with the next call; rotation
	// simply moves on.
	assert.False(t, first.Useful)
	assert.True(t, second.Useful)
	assert.Equal(t, int64(1), hitsBroken.Load())
	assert.Equal(t, int64(1), hitsHealthy.Load())
}

func TestClassifyRetriesSameEndpoint(t *testing.T) {
	var hits atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, chatCompletionResponse(verdictJSON))
	}))
	defer srv.Close()

	endpoint := testEndpoint("flaky", srv.URL)
	endpoint.MaxRetries = 2
	client := newTestClient(t, endpoint)

	verdict := client.Classify(context.Background(), "t", "c", "https://example.org/feed")

	assert.True(t, verdict.Useful)
	assert.Equal(t, int64(2), hits.Load())
}

func TestClassifyFallsBackOnExhaustedEndpoint(t *testing.T) {
	var hits atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	endpoint := testEndpoint("down", srv.URL)
	endpoint.MaxRetries = 1
	client := newTestClient(t, endpoint)

	verdict := client.Classify(context.Background(), "A Paper", "c", "https://example.org/feed")

	assert.Equal(t, int64(2), hits.Load())
	assert.False(t, verdict.Useful)
	assert.Contains(t, verdict.Reason, "classification failed")
	assert.Equal(t, "no summary available", verdict.Summary)
	assert.Equal(t, "A Paper", verdict.Title)
}

func TestClassifyFallsBackOnUnparseableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chatCompletionResponse("I would rather write a poem."))
	}))
	defer srv.Close()

	client := newTestClient(t, testEndpoint("chatty", srv.URL))

	verdict := client.Classify(context.Background(), "A Paper", "c", "https://example.org/feed")

	assert.False(t, verdict.Useful)
	assert.Contains(t, verdict.Reason, "classification failed")
}

func TestCompleteChatOpenRouterHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("HTTP-Referer"))
		assert.NotEmpty(t, r.Header.Get("X-Title"))
		fmt.Fprint(w, chatCompletionResponse(verdictJSON))
	}))
	defer srv.Close()

	endpoint := testEndpoint("router", srv.URL)
	endpoint.Provider = ProviderOpenRouter
	client := newTestClient(t, endpoint)

	verdict := client.Classify(context.Background(), "t", "c", "https://example.org/feed")
	assert.True(t, verdict.Useful)
}

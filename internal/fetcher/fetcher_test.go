package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>On Queueing</title></head>
<body>
<article>
<h1>On Queueing</h1>
<p>Queues decouple producers from consumers, which is why they appear in
nearly every system that has to absorb bursts of work. The cost of that
decoupling is that failures become invisible until the queue is drained,
so every durable queue needs an explicit story for retries and for
items that never succeed.</p>
<p>The simplest robust policy is a bounded retry counter with a
dead-letter step at the end. It is easy to reason about, easy to
observe, and it degrades gracefully: an item that keeps failing
consumes a fixed amount of work before it is set aside for a human to
inspect.</p>
<p>More elaborate schemes, exponential backoff per item, priority
lanes, poison-pill detection, all earn their complexity only at scales
where the simple counter visibly falls short.</p>
</article>
</body>
</html>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchExtractsArticleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	text, err := NewReadabilityFetcher(testLogger()).Fetch(context.Background(), srv.URL+"/post")

	require.NoError(t, err)
	assert.Contains(t, text, "decouple producers from consumers")
	assert.Contains(t, text, "dead-letter step")
	assert.NotContains(t, text, "<p>", "markup must be stripped")
}

func TestFetchRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4")
	}))
	defer srv.Close()

	_, err := NewReadabilityFetcher(testLogger()).Fetch(context.Background(), srv.URL+"/doc.pdf")

	assert.ErrorIs(t, err, ErrNotHTML)
}

func TestFetchRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewReadabilityFetcher(testLogger()).Fetch(context.Background(), srv.URL+"/gone")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "404"))
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := NewReadabilityFetcher(testLogger()).Fetch(context.Background(), "://not-a-url")

	assert.Error(t, err)
}

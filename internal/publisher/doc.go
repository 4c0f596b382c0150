// Package publisher sends accepted articles to the downstream
// read-later service. The save call is best-effort: retry on failure
// is the processing engine's responsibility through the work queue.
package publisher

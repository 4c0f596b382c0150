package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/feedsieve/internal/classifier"
	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/fetcher"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
	"github.com/phrazzld/feedsieve/internal/publisher"
	"github.com/phrazzld/feedsieve/internal/redact"
	"github.com/phrazzld/feedsieve/internal/store"
)

// skipSummary is recorded for items from sources with no prompt group.
const skipSummary = "no summary: source has no configured prompt group"

// Engine processes one work item at a time through the full pipeline:
// prompt group match, optional content refetch, truncation,
// classification, downstream publish, and outcome recording.
type Engine struct {
	queue      store.WorkItemStore
	outcomes   store.OutcomeStore
	classifier classifier.Classifier
	publisher  publisher.Publisher
	fetcher    fetcher.Fetcher
	groups     []domain.PromptGroup
	logger     *slog.Logger
}

// New creates a processing engine. The fetcher may be nil, in which case
// prompt groups requesting a content refetch fall back to the queued
// body. If log is nil, a default logger will be used.
func New(
	queue store.WorkItemStore,
	outcomes store.OutcomeStore,
	cls classifier.Classifier,
	pub publisher.Publisher,
	fetch fetcher.Fetcher,
	groups []domain.PromptGroup,
	log *slog.Logger,
) *Engine {
	if queue == nil {
		panic("queue store cannot be nil")
	}
	if outcomes == nil {
		panic("outcome store cannot be nil")
	}
	if cls == nil {
		panic("classifier cannot be nil")
	}
	if pub == nil {
		panic("publisher cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		queue:      queue,
		outcomes:   outcomes,
		classifier: cls,
		publisher:  pub,
		fetcher:    fetch,
		groups:     groups,
		logger:     log.With(slog.String("component", "engine")),
	}
}

// ProcessOne takes the oldest pending work item and runs it through the
// pipeline to a terminal outcome or a retry. It reports whether an item
// was available. An error is returned only when the queue itself cannot
// be read; per-item failures are absorbed by the retry policy.
func (e *Engine) ProcessOne(ctx context.Context) (bool, error) {
	item, err := e.queue.NextPending(ctx)
	if err != nil {
		if store.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read work queue: %w", err)
	}

	log := e.logger.With(
		slog.String("item_id", item.ID.String()),
		slog.String("source_url", item.SourceURL),
		slog.String("title", item.Title))
	ctx = logger.WithLogger(ctx, log)

	log.Info("processing work item",
		slog.Int("retry_count", item.RetryCount),
		slog.Int("max_retries", item.MaxRetries))

	e.processItem(ctx, item)
	return true, nil
}

// processItem drives a single item to retirement, retry, or dead-letter.
func (e *Engine) processItem(ctx context.Context, item *domain.WorkItem) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	group, matched := domain.MatchPromptGroup(e.groups, item.SourceURL)
	if !matched {
		record, err := domain.NewOutcomeRecord(
			item.SourceURL, item.Title, skipSummary, item.ArticleURL, domain.DispositionSkipped)
		if err == nil {
			record.ErrorDetail = "no matching prompt group"
			err = e.outcomes.Create(ctx, record)
		}
		if err != nil {
			log.Error("failed to record skipped outcome", slog.String("error", err.Error()))
			e.retryOrDrop(ctx, item)
			return
		}
		log.Info("work item skipped, source has no prompt group")
		e.retire(ctx, item)
		return
	}

	content := item.Content
	if group.RefetchContent && e.fetcher != nil {
		fetched, err := e.fetcher.Fetch(ctx, item.ArticleURL)
		if err != nil {
			log.Warn("content refetch failed, using queued body",
				slog.String("error", err.Error()))
		} else {
			content = fetched
		}
	}

	truncated := Truncate(content)
	if truncated != content {
		log.Debug("content truncated for classification",
			slog.Int("original_length", len([]rune(content))),
			slog.Int("truncated_length", len([]rune(truncated))))
	}

	verdict := e.classifier.Classify(ctx, item.Title, truncated, item.SourceURL)

	if !verdict.Useful {
		record, err := domain.NewOutcomeRecord(
			item.SourceURL, item.Title, verdict.Summary, item.ArticleURL, domain.DispositionUseless)
		if err == nil {
			record.Verdict = &verdict
			err = e.outcomes.Create(ctx, record)
		}
		if err != nil {
			log.Error("failed to record useless outcome", slog.String("error", err.Error()))
			e.retryOrDrop(ctx, item)
			return
		}
		log.Info("work item filtered out", slog.String("reason", verdict.Reason))
		e.retire(ctx, item)
		return
	}

	publishID, err := e.publisher.Save(ctx, item.ArticleURL)
	if err != nil {
		log.Error("downstream publish failed", slog.String("error", redact.Error(err)))
		record, recordErr := domain.NewOutcomeRecord(
			item.SourceURL, item.Title, verdict.Summary, item.ArticleURL, domain.DispositionFailed)
		if recordErr == nil {
			record.Verdict = &verdict
			// The ledger outlives the logs; keep credentials out of it.
			record.ErrorDetail = redact.Error(err)
			recordErr = e.outcomes.Create(ctx, record)
		}
		if recordErr != nil {
			log.Error("failed to record failed outcome", slog.String("error", recordErr.Error()))
		}
		e.retryOrDrop(ctx, item)
		return
	}

	record, err := domain.NewOutcomeRecord(
		item.SourceURL, item.Title, verdict.Summary, item.ArticleURL, domain.DispositionUseful)
	if err == nil {
		record.Verdict = &verdict
		record.PublishID = publishID
		err = e.outcomes.Create(ctx, record)
	}
	if err != nil {
		// The publish already happened; a retry may publish the same URL
		// again, which the downstream service deduplicates.
		log.Error("failed to record useful outcome", slog.String("error", err.Error()))
		e.retryOrDrop(ctx, item)
		return
	}

	log.Info("work item published", slog.String("publish_id", publishID))
	e.retire(ctx, item)
}

// retire removes a fully processed item from the queue.
func (e *Engine) retire(ctx context.Context, item *domain.WorkItem) {
	log := logger.FromContextOrDefault(ctx, e.logger)
	if err := e.queue.Remove(ctx, item.ID); err != nil {
		log.Error("failed to remove processed work item", slog.String("error", err.Error()))
	}
}

// retryOrDrop returns a failed item to the queue with its retry count
// incremented, or dead-letters it once the retry budget is exhausted.
func (e *Engine) retryOrDrop(ctx context.Context, item *domain.WorkItem) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if item.CanRetry() {
		if err := e.queue.MarkForRetry(ctx, item.ID); err != nil {
			log.Error("failed to mark work item for retry", slog.String("error", err.Error()))
			return
		}
		log.Info("work item returned to queue for retry",
			slog.Int("retry_count", item.RetryCount+1),
			slog.Int("max_retries", item.MaxRetries))
		return
	}

	if err := e.queue.Remove(ctx, item.ID); err != nil {
		log.Error("failed to remove dead-lettered work item", slog.String("error", err.Error()))
		return
	}
	log.Error("work item dead-lettered after exhausting retries",
		slog.Int("retry_count", item.RetryCount),
		slog.Int("max_retries", item.MaxRetries))
}

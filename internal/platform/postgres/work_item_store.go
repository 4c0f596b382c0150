package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
	"github.com/phrazzld/feedsieve/internal/store"
)

// PostgresWorkItemStore implements the store.WorkItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWorkItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWorkItemStore creates a new PostgreSQL implementation of the
// WorkItemStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWorkItemStore(db store.DBTX, logger *slog.Logger) *PostgresWorkItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWorkItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "work_item_store")),
	}
}

// Ensure PostgresWorkItemStore implements store.WorkItemStore interface
var _ store.WorkItemStore = (*PostgresWorkItemStore)(nil)

// Enqueue implements store.WorkItemStore.Enqueue
// It saves a new pending work item, handling domain validation.
// Returns store.ErrDuplicateItem if an item with the same article URL
// is already pending (unique index violation).
func (s *PostgresWorkItemStore) Enqueue(ctx context.Context, item *domain.WorkItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("work item validation failed during enqueue",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO work_items (id, source_url, title, content, article_url,
			retry_count, max_retries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.SourceURL,
		item.Title,
		item.Content,
		item.ArticleURL,
		item.RetryCount,
		item.MaxRetries,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate article URL during enqueue",
				slog.String("item_id", item.ID.String()),
				slog.String("article_url", item.ArticleURL))
			return fmt.Errorf("%w: %s", store.ErrDuplicateItem, item.ArticleURL)
		}

		log.Error("failed to enqueue work item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("source_url", item.SourceURL))
		return MapError(err)
	}

	log.Info("work item enqueued",
		slog.String("item_id", item.ID.String()),
		slog.String("source_url", item.SourceURL),
		slog.String("article_url", item.ArticleURL))
	return nil
}

// NextPending implements store.WorkItemStore.NextPending
// It retrieves the oldest pending work item, FIFO by enqueue time with
// the insertion sequence as tie-breaker.
// Returns store.ErrWorkItemNotFound when the queue is empty.
func (s *PostgresWorkItemStore) NextPending(ctx context.Context) (*domain.WorkItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, source_url, title, content, article_url,
			retry_count, max_retries, created_at, updated_at
		FROM work_items
		ORDER BY created_at ASC, seq ASC
		LIMIT 1
	`

	var item domain.WorkItem

	err := s.db.QueryRowContext(ctx, query).Scan(
		&item.ID,
		&item.SourceURL,
		&item.Title,
		&item.Content,
		&item.ArticleURL,
		&item.RetryCount,
		&item.MaxRetries,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWorkItemNotFound
		}
		log.Error("failed to get next pending work item",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &item, nil
}

// MarkForRetry implements store.WorkItemStore.MarkForRetry
// It increments the persisted retry count and returns the item to the
// pending state. Returns store.ErrWorkItemNotFound if the item does
// not exist.
func (s *PostgresWorkItemStore) MarkForRetry(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE work_items
		SET retry_count = retry_count + 1, updated_at = $2
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		log.Error("failed to mark work item for retry",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "work item"); err != nil {
		return fmt.Errorf("%w: %s", store.ErrWorkItemNotFound, id)
	}

	log.Debug("work item marked for retry", slog.String("item_id", id.String()))
	return nil
}

// Remove implements store.WorkItemStore.Remove
// It deletes the item, used both for terminal success and for
// exhausted-retry termination.
func (s *PostgresWorkItemStore) Remove(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM work_items WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to remove work item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "work item"); err != nil {
		return fmt.Errorf("%w: %s", store.ErrWorkItemNotFound, id)
	}

	log.Debug("work item removed", slog.String("item_id", id.String()))
	return nil
}

// PurgeOlderThan implements store.WorkItemStore.PurgeOlderThan
// It removes pending items older than the given age and reports how
// many were deleted.
func (s *PostgresWorkItemStore) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cutoff := time.Now().UTC().Add(-age)

	query := `DELETE FROM work_items WHERE created_at < $1`

	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		log.Error("failed to purge stale work items",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted > 0 {
		log.Info("purged stale work items",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff))
	}

	return deleted, nil
}

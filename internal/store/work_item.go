package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/feedsieve/internal/domain"
)

// WorkItemStore defines the interface for the durable work queue.
// Ordering is strict FIFO by enqueue time, tie-broken by insertion
// sequence. All mutations are durable before the call returns.
type WorkItemStore interface {
	// Enqueue saves a new pending work item.
	// Returns ErrDuplicateItem if an item with the same article URL
	// is already pending.
	Enqueue(ctx context.Context, item *domain.WorkItem) error

	// NextPending retrieves the oldest pending work item.
	// Returns ErrWorkItemNotFound when the queue is empty.
	NextPending(ctx context.Context) (*domain.WorkItem, error)

	// MarkForRetry increments the item's retry count and returns it to
	// the pending state. Returns ErrWorkItemNotFound if the item does
	// not exist.
	MarkForRetry(ctx context.Context, id uuid.UUID) error

	// Remove deletes the item, on terminal success or after exhausting
	// retries. Returns ErrWorkItemNotFound if the item does not exist.
	Remove(ctx context.Context, id uuid.UUID) error

	// PurgeOlderThan removes pending items older than the given age and
	// reports how many were deleted. Safety valve against unbounded
	// growth from chronically failing items.
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

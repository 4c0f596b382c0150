package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for WorkItem
var (
	ErrEmptyWorkItemID   = errors.New("work item ID cannot be empty")
	ErrEmptySourceURL    = errors.New("work item source URL cannot be empty")
	ErrEmptyItemTitle    = errors.New("work item title cannot be empty")
	ErrEmptyArticleURL   = errors.New("work item article URL cannot be empty")
	ErrInvalidMaxRetries = errors.New("work item max retries must be positive")
)

// WorkItem represents one pending content item awaiting classification
// and publishing. Items are created by the webhook ingress and mutated
// only by the processing engine.
type WorkItem struct {
	ID         uuid.UUID `json:"id"`
	SourceURL  string    `json:"source_url"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ArticleURL string    `json:"article_url"`
	RetryCount int       `json:"retry_count"`
	MaxRetries int       `json:"max_retries"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewWorkItem creates a new WorkItem with the given source, title, content
// and article URL. It generates a new UUID for the item ID, zeroes the retry
// count, and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewWorkItem(sourceURL, title, content, articleURL string, maxRetries int) (*WorkItem, error) {
	item := &WorkItem{
		ID:         uuid.New(),
		SourceURL:  sourceURL,
		Title:      title,
		Content:    content,
		ArticleURL: articleURL,
		RetryCount: 0,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the WorkItem has valid data.
// Content may be empty; some feeds deliver title-only entries.
func (w *WorkItem) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWorkItemID
	}

	if w.SourceURL == "" {
		return ErrEmptySourceURL
	}

	if w.Title == "" {
		return ErrEmptyItemTitle
	}

	if w.ArticleURL == "" {
		return ErrEmptyArticleURL
	}

	if w.MaxRetries < 1 {
		return ErrInvalidMaxRetries
	}

	return nil
}

// CanRetry reports whether the item has retry attempts left.
func (w *WorkItem) CanRetry() bool {
	return w.RetryCount < w.MaxRetries
}

package store

import (
	"context"
	"time"

	"github.com/phrazzld/feedsieve/internal/domain"
)

// ListFilter narrows and pages an outcome record listing.
// Zero values mean "no filter"; Page and PageSize are normalized by
// the implementation when out of range.
type ListFilter struct {
	Disposition domain.Disposition
	Search      string
	Page        int
	PageSize    int
}

// OutcomePage is one page of outcome records plus paging metadata.
type OutcomePage struct {
	Records    []*domain.OutcomeRecord `json:"records"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int64                   `json:"total_pages"`
}

// OutcomeStats aggregates dispositions over a time window.
type OutcomeStats struct {
	Total       int64   `json:"total"`
	Useful      int64   `json:"useful"`
	Useless     int64   `json:"useless"`
	Failed      int64   `json:"failed"`
	Skipped     int64   `json:"skip"`
	SuccessRate float64 `json:"success_rate"`
}

// OutcomeStore defines the interface for the append-only outcome ledger.
type OutcomeStore interface {
	// Create appends a new outcome record. Records are never updated
	// or deleted by the processing pipeline.
	Create(ctx context.Context, record *domain.OutcomeRecord) error

	// List returns outcome records newest-first, filtered and paged.
	List(ctx context.Context, filter ListFilter) (*OutcomePage, error)

	// Stats aggregates outcome dispositions created at or after since.
	Stats(ctx context.Context, since time.Time) (*OutcomeStats, error)
}

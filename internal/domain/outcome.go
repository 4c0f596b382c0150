package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Disposition classifies the terminal result of processing one work item.
type Disposition string

// Possible disposition values
const (
	// DispositionUseful marks content that was judged worth keeping and
	// was published downstream.
	DispositionUseful Disposition = "useful"

	// DispositionUseless marks content the classifier filtered out.
	// Filtering is a successful outcome, not a failure.
	DispositionUseless Disposition = "useless"

	// DispositionFailed marks a processing attempt that could not complete.
	DispositionFailed Disposition = "failed"

	// DispositionSkipped marks content from a source with no configured
	// prompt group.
	DispositionSkipped Disposition = "skip"
)

// Common validation errors for OutcomeRecord
var (
	ErrEmptyOutcomeID     = errors.New("outcome record ID cannot be empty")
	ErrEmptyOutcomeSource = errors.New("outcome record source URL cannot be empty")
	ErrInvalidDisposition = errors.New("invalid outcome disposition")
)

// OutcomeRecord is an immutable audit entry written once per terminal
// processing attempt of a WorkItem. Which optional fields are populated
// is determined by the disposition: a useful record carries the verdict
// and the downstream publish ID, a failed record carries the error detail.
type OutcomeRecord struct {
	ID          uuid.UUID              `json:"id"`
	SourceURL   string                 `json:"source_url"`
	Title       string                 `json:"title"`
	Summary     string                 `json:"summary"`
	ArticleURL  string                 `json:"article_url"`
	Disposition Disposition            `json:"disposition"`
	Verdict     *ClassificationVerdict `json:"verdict,omitempty"`
	PublishID   string                 `json:"publish_id,omitempty"`
	ErrorDetail string                 `json:"error_detail,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewOutcomeRecord creates a new OutcomeRecord for the given item fields
// and disposition. Optional fields (verdict, publish ID, error detail)
// are set by the caller before the record is persisted.
func NewOutcomeRecord(sourceURL, title, summary, articleURL string, disposition Disposition) (*OutcomeRecord, error) {
	record := &OutcomeRecord{
		ID:          uuid.New(),
		SourceURL:   sourceURL,
		Title:       title,
		Summary:     summary,
		ArticleURL:  articleURL,
		Disposition: disposition,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the OutcomeRecord has valid data.
func (r *OutcomeRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyOutcomeID
	}

	if r.SourceURL == "" {
		return ErrEmptyOutcomeSource
	}

	if !isValidDisposition(r.Disposition) {
		return ErrInvalidDisposition
	}

	return nil
}

// isValidDisposition checks if the given disposition is a known value.
func isValidDisposition(d Disposition) bool {
	switch d {
	case DispositionUseful, DispositionUseless, DispositionFailed, DispositionSkipped:
		return true
	default:
		return false
	}
}

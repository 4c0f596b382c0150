package classifier

import (
	"context"

	"github.com/phrazzld/feedsieve/internal/domain"
)

// Classifier defines the interface for judging content relevance.
// This interface serves as a boundary between the processing engine and
// external LLM services.
type Classifier interface {
	// Classify judges the given content and returns a fully populated
	// verdict. It never fails: any unrecoverable error produces the
	// deterministic fallback verdict with Useful set to false.
	Classify(ctx context.Context, title, content, sourceURL string) domain.ClassificationVerdict
}

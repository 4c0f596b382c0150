package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/feedsieve/internal/domain"
)

// parseVerdict extracts the verdict payload from raw model output.
// Models routinely wrap the JSON in prose or code fences, so the parser
// takes the substring from the first '{' to the last '}' and requires
// all four verdict fields to be present.
func parseVerdict(raw string) (domain.ClassificationVerdict, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return domain.ClassificationVerdict{},
			fmt.Errorf("%w: no JSON object in model output", ErrMalformedResponse)
	}

	var payload struct {
		Useful  *bool   `json:"useful"`
		Reason  *string `json:"reason"`
		Summary *string `json:"summary"`
		Title   *string `json:"title"`
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return domain.ClassificationVerdict{},
			fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case payload.Useful == nil:
		return domain.ClassificationVerdict{}, fmt.Errorf("%w: useful", ErrMissingField)
	case payload.Reason == nil:
		return domain.ClassificationVerdict{}, fmt.Errorf("%w: reason", ErrMissingField)
	case payload.Summary == nil:
		return domain.ClassificationVerdict{}, fmt.Errorf("%w: summary", ErrMissingField)
	case payload.Title == nil:
		return domain.ClassificationVerdict{}, fmt.Errorf("%w: title", ErrMissingField)
	}

	return domain.ClassificationVerdict{
		Useful:  *payload.Useful,
		Reason:  *payload.Reason,
		Summary: *payload.Summary,
		Title:   *payload.Title,
	}, nil
}

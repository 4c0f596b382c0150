package domain

// ClassificationVerdict is the structured result of one classification call.
// It is always fully populated: a failed call or unparseable model response
// produces the deterministic fallback verdict instead of a partial result.
type ClassificationVerdict struct {
	Useful  bool   `json:"useful"`
	Reason  string `json:"reason"`
	Summary string `json:"summary"`
	Title   string `json:"title"`
}

// FallbackVerdict builds the deterministic verdict used when classification
// fails for any reason. The item is treated as not useful and the reason
// carries the failure detail.
func FallbackVerdict(title string, cause error) ClassificationVerdict {
	reason := "classification failed"
	if cause != nil {
		reason = "classification failed: " + cause.Error()
	}

	return ClassificationVerdict{
		Useful:  false,
		Reason:  reason,
		Summary: "no summary available",
		Title:   title,
	}
}

// Package engine orchestrates the processing of queued content items:
// truncation, classification, downstream publishing, outcome recording,
// and the retry/dead-letter policy. Processing is strictly sequential;
// at most one work item is in flight system-wide.
package engine

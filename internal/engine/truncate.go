package engine

import "fmt"

// Truncation policy: bodies at or under the threshold pass through
// unchanged; longer bodies keep the lede and the conclusion so the
// classifier always sees both, at a fixed token-cost ceiling.
const (
	truncateThreshold = 3500
	headBudget        = 2500
	tailBudget        = 1000
	shortBodyLimit    = 3000
	shortHeadRatio    = 0.8
	longHeadRatio     = 0.7
)

// Truncate bounds the body for downstream consumption. Lengths are
// measured in characters, not bytes, so multi-byte scripts are not
// cut mid-rune.
func Truncate(body string) string {
	runes := []rune(body)
	length := len(runes)

	if length <= truncateThreshold {
		return body
	}

	head := headBudget
	tail := tailBudget

	// Bodies under the combined head+tail budget scale the kept
	// portions down instead of overlapping.
	if length < head+tail {
		if length <= shortBodyLimit {
			head = int(float64(length) * shortHeadRatio)
			tail = 0
		} else {
			head = int(float64(length) * longHeadRatio)
			tail = length - head
		}
	}

	headPart := string(runes[:head])
	if tail == 0 {
		return fmt.Sprintf("%s\n\n... [content truncated: kept first %d characters] ...", headPart, head)
	}

	tailPart := string(runes[length-tail:])
	return fmt.Sprintf("%s\n\n... [content truncated: kept first %d and last %d characters] ...\n\n%s",
		headPart, head, tail, tailPart)
}

package monitor

import (
	"strings"

	"github.com/jonathan/marketing-intel/internal/types"
)

// DetectChange reports whether a freshly generated brief represents a shift
// from the previous one. A target with no history always counts as changed so
// the first run surfaces every watched competitor.
func DetectChange(previous, current *types.Brief) bool {
	if current == nil {
		return false
	}
	if previous == nil {
		return true
	}
	return !equalFold(previous.ValueProposition, current.ValueProposition)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

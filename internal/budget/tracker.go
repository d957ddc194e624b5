package budget

import (
	"sync"

	"github.com/rkuznets/dupaudit/internal/model"
)

// charsPerToken is the rough estimate used throughout: one token per four
// characters of content
const charsPerToken = 4

// Tracker is the shrinking token allowance for one analysis run. It only
// ever decreases and is clamped at zero; exhaustion halts model-assisted
// enrichment but never rule-based detection. One tracker per run, never
// shared across runs.
type Tracker struct {
	mu        sync.Mutex
	available int
}

// NewTracker seeds a tracker with the given allowance. Negative values are
// treated as zero; use model.DefaultTokenBudget for the standard allowance.
func NewTracker(tokens int) *Tracker {
	if tokens < 0 {
		tokens = 0
	}
	return &Tracker{available: tokens}
}

// Remaining returns the current allowance
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.available
}

// Consume decrements the allowance by n (clamped at zero) and returns the
// new remainder. Consuming is never retroactive: callers must consume the
// estimated cost of a batch before dispatching the next one.
func (t *Tracker) Consume(n int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > 0 {
		t.available -= n
		if t.available < 0 {
			t.available = 0
		}
	}
	return t.available
}

// Exhausted reports whether no allowance remains
func (t *Tracker) Exhausted() bool {
	return t.Remaining() <= 0
}

// EstimateText estimates the token cost of a single string
func EstimateText(s string) int {
	return len(s) / charsPerToken
}

// EstimateItems estimates the combined token cost of a content list
func EstimateItems(items []model.ContentItem) int {
	total := 0
	for _, item := range items {
		total += len(item.Content)
	}
	return total / charsPerToken
}

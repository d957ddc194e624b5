package sampling

import (
	"fmt"

	"github.com/rkuznets/dupaudit/internal/budget"
	"github.com/rkuznets/dupaudit/internal/model"
)

// Selection thresholds: first band that matches wins
const (
	noneMaxItems  = 15
	noneMaxTokens = 2000

	representativeMaxItems  = 50
	representativeMaxTokens = 5000
	representativeCap       = 25

	priorityMaxItems = 100
	priorityCap      = 30

	clusterCap = 40
)

// Selector chooses and applies a sampling strategy for one content type.
// Selector is stateless; both operations are pure functions of their inputs.
type Selector struct{}

// NewSelector creates a new sampling selector
func NewSelector() *Selector {
	return &Selector{}
}

// SelectStrategy picks a sampling method from corpus size and estimated
// token cost. The choice is made once per content type and is immutable.
func (s *Selector) SelectStrategy(items []model.ContentItem) model.SamplingStrategy {
	n := len(items)
	tokens := budget.EstimateItems(items)

	switch {
	case n <= noneMaxItems && tokens <= noneMaxTokens:
		return model.SamplingStrategy{
			Method:     model.SamplingNone,
			SampleSize: n,
			Reason:     fmt.Sprintf("small corpus (%d items, ~%d tokens): analyzing everything", n, tokens),
		}
	case n <= representativeMaxItems && tokens <= representativeMaxTokens:
		return model.SamplingStrategy{
			Method:                  model.SamplingRepresentative,
			SampleSize:              minInt(representativeCap, n),
			Reason:                  fmt.Sprintf("medium corpus (%d items, ~%d tokens): systematic sample preserving duplicates", n, tokens),
			PreserveExactDuplicates: true,
		}
	case n <= priorityMaxItems:
		return model.SamplingStrategy{
			Method:     model.SamplingPriority,
			SampleSize: minInt(priorityCap, n),
			Reason:     fmt.Sprintf("large corpus (%d items): sampling highest SEO-value pages", n),
		}
	default:
		return model.SamplingStrategy{
			Method:                  model.SamplingCluster,
			SampleSize:              minInt(clusterCap, n),
			Reason:                  fmt.Sprintf("very large corpus (%d items): cluster sampling for topical coverage", n),
			PreserveExactDuplicates: true,
		}
	}
}

// Apply executes the chosen strategy. The returned Sampled and Excluded
// lists always partition the input exactly.
func (s *Selector) Apply(strategy model.SamplingStrategy, items []model.ContentItem, contentType model.ContentType) model.SamplingResult {
	if len(items) == 0 {
		return model.SamplingResult{
			Sampled:            []model.ContentItem{},
			Excluded:           []model.ContentItem{},
			Representativeness: 100,
			Insights:           []string{"empty corpus: nothing to sample"},
		}
	}

	switch strategy.Method {
	case model.SamplingRepresentative:
		return sampleRepresentative(items, strategy.SampleSize)
	case model.SamplingPriority:
		return samplePriority(items, strategy.SampleSize, contentType)
	case model.SamplingCluster:
		return sampleCluster(items, strategy.SampleSize)
	default:
		return model.SamplingResult{
			Sampled:            append([]model.ContentItem{}, items...),
			Excluded:           []model.ContentItem{},
			Representativeness: 100,
			Insights:           []string{fmt.Sprintf("no sampling: all %d items analyzed", len(items))},
		}
	}
}

// retainedPercent is the share of the corpus kept, 0-100
func retainedPercent(sampled, total int) int {
	if total == 0 {
		return 100
	}
	return sampled * 100 / total
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package model

// SamplingMethod names how a corpus is reduced before analysis
type SamplingMethod string

const (
	SamplingNone           SamplingMethod = "none"           // Analyze everything
	SamplingRepresentative SamplingMethod = "representative" // Duplicate-preserving systematic sample
	SamplingPriority       SamplingMethod = "priority"       // Highest SEO-value items first
	SamplingCluster        SamplingMethod = "cluster"        // One centroid plus members per similarity cluster
)

// SamplingStrategy is the plan chosen for one content type. Immutable for
// the duration of that type's processing.
type SamplingStrategy struct {
	Method                  SamplingMethod `json:"method"`
	SampleSize              int            `json:"sample_size"`
	Reason                  string         `json:"reason"`
	PreserveExactDuplicates bool           `json:"preserve_exact_duplicates"`
}

// SamplingResult is the outcome of applying a strategy.
// Invariant: Sampled and Excluded partition the input exactly (by URL).
type SamplingResult struct {
	Sampled            []ContentItem `json:"sampled"`
	Excluded           []ContentItem `json:"excluded"`
	Representativeness int           `json:"representativeness"` // 0-100 self-estimate
	Insights           []string      `json:"insights"`           // Human-readable audit trail
}

// TypeSamplingStats records what sampling did for one content type
type TypeSamplingStats struct {
	Method             SamplingMethod `json:"method"`
	InputSize          int            `json:"input_size"`
	SampleSize         int            `json:"sample_size"`
	Representativeness int            `json:"representativeness"`
}

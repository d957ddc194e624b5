package model

import "time"

// RepetitionSection summarizes duplication findings for one content type
type RepetitionSection struct {
	RepetitiveCount int             `json:"repetitive_count"` // Excess occurrences across all groups
	TotalCount      int             `json:"total_count"`      // Items of this type before sampling
	Examples        []string        `json:"examples"`
	Recommendations []string        `json:"recommendations"`
	DuplicateGroups []DuplicateItem `json:"duplicate_groups"`
}

// HeadingRepetitionSection extends the heading section with a breakdown
// per heading level (H1-H6)
type HeadingRepetitionSection struct {
	RepetitionSection
	ByLevel map[int]HeadingLevelStats `json:"by_level,omitempty"`
}

// HeadingLevelStats summarizes duplication for a single heading level
type HeadingLevelStats struct {
	Level           int `json:"level"`
	RepetitiveCount int `json:"repetitive_count"`
	TotalCount      int `json:"total_count"`
}

// ContentDuplicationAnalysis is the complete report for one analysis run.
// Built fresh per run, never mutated after the analyzer returns it.
type ContentDuplicationAnalysis struct {
	TitleRepetition        RepetitionSection        `json:"title_repetition"`
	DescriptionRepetition  RepetitionSection        `json:"description_repetition"`
	HeadingRepetition      HeadingRepetitionSection `json:"heading_repetition"`
	ParagraphRepetition    RepetitionSection        `json:"paragraph_repetition"`
	OverallRecommendations []string                 `json:"overall_recommendations"`
	TotalPages             int                      `json:"total_pages"`
	GeneratedAt            time.Time                `json:"generated_at"`
}

// AnalysisStats is the performance companion to the report
type AnalysisStats struct {
	Duration       time.Duration                     `json:"duration_ns"`
	TokensUsed     int                               `json:"tokens_used"`
	ModelCalls     int                               `json:"model_calls"`
	EnrichmentUsed bool                              `json:"enrichment_used"`
	Sampling       map[ContentType]TypeSamplingStats `json:"sampling"`
}

// EmptySection returns a zero-valued section with initialized slices, so
// empty corpora render as explicit empty results rather than nulls
func EmptySection() RepetitionSection {
	return RepetitionSection{
		Examples:        []string{},
		Recommendations: []string{},
		DuplicateGroups: []DuplicateItem{},
	}
}

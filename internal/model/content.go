package model

// ContentItem is a single piece of extracted page content, immutable once created
type ContentItem struct {
	Content   string `json:"content"`    // Normalized content text
	URL       string `json:"url"`        // Source page URL
	PageIndex int    `json:"page_index"` // Index of the page in the crawl
}

// ContentType identifies the kind of content an item was extracted from
type ContentType string

const (
	ContentTypeTitle       ContentType = "title"
	ContentTypeDescription ContentType = "description"
	ContentTypeHeading     ContentType = "heading"
	ContentTypeParagraph   ContentType = "paragraph"
)

// BaseWeight returns the SEO priority weight for the content type.
// Titles carry the largest duplication penalty, paragraphs the smallest.
func (t ContentType) BaseWeight() int {
	switch t {
	case ContentTypeTitle:
		return 100
	case ContentTypeDescription:
		return 80
	case ContentTypeHeading:
		return 60
	case ContentTypeParagraph:
		return 40
	default:
		return 0
	}
}

// ContentGroup is a transient cluster of items sharing duplicated content
type ContentGroup struct {
	RepresentativeContent string        `json:"representative_content"`
	Items                 []ContentItem `json:"items"`
	Similarity            int           `json:"similarity"` // 0-100
}

// ImpactLevel classifies the severity of a duplicate group
type ImpactLevel string

const (
	ImpactCritical ImpactLevel = "critical"
	ImpactHigh     ImpactLevel = "high"
	ImpactMedium   ImpactLevel = "medium"
	ImpactLow      ImpactLevel = "low"
)

// ImpactFromURLCount derives the impact level from the number of distinct
// pages sharing the content. This is the only input to severity.
func ImpactFromURLCount(n int) ImpactLevel {
	switch {
	case n >= 10:
		return ImpactCritical
	case n >= 5:
		return ImpactHigh
	case n >= 3:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// ValidImpactLevel reports whether s names a known impact level
func ValidImpactLevel(s string) bool {
	switch ImpactLevel(s) {
	case ImpactCritical, ImpactHigh, ImpactMedium, ImpactLow:
		return true
	}
	return false
}

// DuplicateItem is the report-facing representation of one duplicate group.
// Priority, RootCause and ImprovementStrategy are only present after
// model-assisted enrichment; ImpactLevel is always set.
type DuplicateItem struct {
	Content             string      `json:"content"`
	URLs                []string    `json:"urls"`
	SimilarityScore     int         `json:"similarity_score"` // 0-100
	ImpactLevel         ImpactLevel `json:"impact_level"`
	Priority            int         `json:"priority,omitempty"` // 1-5, 0 = unset
	RootCause           string      `json:"root_cause,omitempty"`
	ImprovementStrategy string      `json:"improvement_strategy,omitempty"`
}

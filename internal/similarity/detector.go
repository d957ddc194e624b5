package similarity

import (
	"sort"

	"github.com/rkuznets/dupaudit/internal/model"
)

// Options controls the detection tiers for one content type
type Options struct {
	ExactMatchThreshold int // Kept for symmetry; the exact tier always matches at 100
	FuzzyMatchThreshold int // 0-100, composite score gate for the fuzzy tier
	SemanticThreshold   int // 0-100, composite score gate for the semantic tier
	MinContentLength    int // Items shorter than this are ignored entirely
}

// DefaultOptions returns thresholds suitable for mid-length content
func DefaultOptions() Options {
	return Options{
		ExactMatchThreshold: 100,
		FuzzyMatchThreshold: 80,
		SemanticThreshold:   70,
		MinContentLength:    10,
	}
}

// TierStats counts groups found per detection tier
type TierStats struct {
	ExactGroups    int `json:"exact_groups"`
	FuzzyGroups    int `json:"fuzzy_groups"`
	SemanticGroups int `json:"semantic_groups"`
}

// Result is the outcome of duplicate detection over one item list
type Result struct {
	DuplicateGroups []model.ContentGroup `json:"duplicate_groups"`
	DuplicateCount  int                  `json:"duplicate_count"` // Sum of excess occurrences
	TotalAnalyzed   int                  `json:"total_analyzed"`
	Examples        []string             `json:"examples"`
	Stats           TierStats            `json:"stats"`
}

// Detector finds duplicate content in three tiers of decreasing precision:
// exact (normalized key equality), fuzzy (edit-distance composite) and
// semantic (word-overlap composite). Each tier only sees items no earlier
// tier has claimed. Detector is stateless; Detect is a pure function of its
// inputs.
type Detector struct {
	opts Options
}

// NewDetector creates a detector with the given options
func NewDetector(opts Options) *Detector {
	return &Detector{opts: opts}
}

// Detect runs all three tiers over the items. Empty or all-short input
// yields an explicit empty result, never an error.
func (d *Detector) Detect(items []model.ContentItem) Result {
	result := Result{
		DuplicateGroups: []model.ContentGroup{},
		Examples:        []string{},
	}

	var pool []model.ContentItem
	for _, item := range items {
		if len(item.Content) >= d.opts.MinContentLength {
			pool = append(pool, item)
		}
	}
	result.TotalAnalyzed = len(pool)
	if len(pool) < 2 {
		return result
	}

	claimed := make([]bool, len(pool))

	exact := d.exactTier(pool, claimed)
	result.Stats.ExactGroups = len(exact)
	result.DuplicateGroups = append(result.DuplicateGroups, exact...)

	fuzzy := d.compositeTier(pool, claimed, d.opts.FuzzyMatchThreshold, fuzzyScore)
	result.Stats.FuzzyGroups = len(fuzzy)
	result.DuplicateGroups = append(result.DuplicateGroups, fuzzy...)

	semantic := d.compositeTier(pool, claimed, d.opts.SemanticThreshold, semanticScore)
	result.Stats.SemanticGroups = len(semantic)
	result.DuplicateGroups = append(result.DuplicateGroups, semantic...)

	for _, g := range result.DuplicateGroups {
		result.DuplicateCount += len(g.Items) - 1
	}
	result.Examples = collectExamples(result.DuplicateGroups, 5)

	return result
}

// exactTier groups items by normalized content key. Groups are
// URL-deduplicated; a group left with fewer than two distinct pages is not
// a duplicate and is dropped.
func (d *Detector) exactTier(pool []model.ContentItem, claimed []bool) []model.ContentGroup {
	byKey := make(map[string][]int)
	var order []string

	for i, item := range pool {
		key := NormalizeContentKey(item.Content)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], i)
	}

	var groups []model.ContentGroup
	for _, key := range order {
		indices := byKey[key]
		if len(indices) < 2 {
			continue
		}

		members := make([]model.ContentItem, 0, len(indices))
		for _, i := range indices {
			members = append(members, pool[i])
		}
		members = DedupeByURL(members)
		if len(members) < 2 {
			continue
		}

		for _, i := range indices {
			claimed[i] = true
		}

		groups = append(groups, model.ContentGroup{
			RepresentativeContent: members[0].Content,
			Items:                 members,
			Similarity:            100,
		})
	}

	return groups
}

// compositeTier runs single-link clustering over unclaimed items: each
// unclaimed item in turn anchors a candidate group and pulls in every later
// unclaimed item whose composite score clears the threshold. Joined items
// are claimed and never become anchors themselves.
func (d *Detector) compositeTier(pool []model.ContentItem, claimed []bool, threshold int, score func(a, b string) float64) []model.ContentGroup {
	var groups []model.ContentGroup

	for i := range pool {
		if claimed[i] {
			continue
		}

		members := []model.ContentItem{pool[i]}
		var joined []int
		var scoreSum float64

		for j := i + 1; j < len(pool); j++ {
			if claimed[j] {
				continue
			}
			s := score(pool[i].Content, pool[j].Content)
			if s >= float64(threshold) {
				members = append(members, pool[j])
				joined = append(joined, j)
				scoreSum += s
			}
		}

		if len(joined) == 0 {
			continue
		}

		deduped := DedupeByURL(members)
		if len(deduped) < 2 {
			continue
		}

		claimed[i] = true
		for _, j := range joined {
			claimed[j] = true
		}

		groups = append(groups, model.ContentGroup{
			RepresentativeContent: deduped[0].Content,
			Items:                 deduped,
			Similarity:            int(scoreSum / float64(len(joined))),
		})
	}

	return groups
}

// fuzzyScore is the fuzzy-tier composite: edit distance dominates, word
// overlap and length ratio temper it
func fuzzyScore(a, b string) float64 {
	return 0.5*LevenshteinSimilarity(a, b) +
		0.3*JaccardWordSimilarity(a, b) +
		0.2*LengthRatioSimilarity(a, b)
}

// semanticScore is the semantic-tier composite: word and keyphrase overlap
// dominate, structural shape tempers them
func semanticScore(a, b string) float64 {
	return 0.4*JaccardWordSimilarity(a, b) +
		0.2*StructuralPatternSimilarity(a, b) +
		0.4*KeyphraseJaccard(a, b)
}

// collectExamples gathers up to max non-empty representative contents,
// largest groups first
func collectExamples(groups []model.ContentGroup, max int) []string {
	ordered := make([]model.ContentGroup, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Items) > len(ordered[j].Items)
	})

	examples := []string{}
	for _, g := range ordered {
		if len(examples) >= max {
			break
		}
		if g.RepresentativeContent != "" {
			examples = append(examples, g.RepresentativeContent)
		}
	}

	return examples
}

package sampling

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rkuznets/dupaudit/internal/model"
	"github.com/rkuznets/dupaudit/internal/similarity"
)

// clusterJoinThreshold is the word-Jaccard score (0-100 scale) above which
// an item joins an existing cluster instead of founding a new one
const clusterJoinThreshold = 70

// sampleRepresentative keeps duplicate evidence first, then spreads the
// remaining slots over the rest of the corpus with a fixed stride, so both
// duplication signal and topical variety survive the cut.
func sampleRepresentative(items []model.ContentItem, sampleSize int) model.SamplingResult {
	if sampleSize >= len(items) {
		return allSampled(items, "sample size covers the whole corpus")
	}

	picked := make([]bool, len(items))
	taken := 0

	// Pre-pass: preserve up to 2 members from every exact-duplicate group,
	// so sampling never erases the evidence we are looking for
	byKey := make(map[string][]int)
	for i, item := range items {
		key := similarity.NormalizeContentKey(item.Content)
		byKey[key] = append(byKey[key], i)
	}

	inDuplicateGroup := make([]bool, len(items))
	duplicatesKept := 0
	for _, item := range items {
		if taken >= sampleSize {
			break
		}
		key := similarity.NormalizeContentKey(item.Content)
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		for _, idx := range group {
			inDuplicateGroup[idx] = true
		}
		// First two occurrences stand in for the whole group
		for gi, idx := range group {
			if gi >= 2 || taken >= sampleSize {
				break
			}
			if !picked[idx] {
				picked[idx] = true
				taken++
				duplicatesKept++
			}
		}
	}

	// Stride pass: every k-th item from the non-duplicate remainder
	var remainder []int
	for i := range items {
		if !picked[i] && !inDuplicateGroup[i] {
			remainder = append(remainder, i)
		}
	}

	slots := sampleSize - taken
	if slots > 0 && len(remainder) > 0 {
		k := len(remainder) / slots
		if k < 1 {
			k = 1
		}
		for pos := 0; pos < len(remainder) && taken < sampleSize; pos += k {
			picked[remainder[pos]] = true
			taken++
		}
	}

	sampled, excluded := partition(items, picked)
	return model.SamplingResult{
		Sampled:            sampled,
		Excluded:           excluded,
		Representativeness: retainedPercent(len(sampled), len(items)),
		Insights: []string{
			fmt.Sprintf("representative sampling: kept %d of %d items", len(sampled), len(items)),
			fmt.Sprintf("preserved %d members of exact-duplicate groups", duplicatesKept),
			fmt.Sprintf("filled %d slots by stride over %d unique items", len(sampled)-duplicatesKept, len(remainder)),
		},
	}
}

// samplePriority scores every item by SEO value and keeps the top slice.
// The result is known to be topically biased toward high-value pages, which
// the representativeness estimate reflects.
func samplePriority(items []model.ContentItem, sampleSize int, contentType model.ContentType) model.SamplingResult {
	if sampleSize >= len(items) {
		return allSampled(items, "sample size covers the whole corpus")
	}

	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, len(items))
	for i, item := range items {
		ranked[i] = scored{index: i, score: priorityScore(item, contentType)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	picked := make([]bool, len(items))
	for _, r := range ranked[:sampleSize] {
		picked[r.index] = true
	}

	sampled, excluded := partition(items, picked)
	retained := retainedPercent(len(sampled), len(items))
	return model.SamplingResult{
		Sampled:  sampled,
		Excluded: excluded,
		// Scaled down: priority sampling is deliberately biased
		Representativeness: retained * 85 / 100,
		Insights: []string{
			fmt.Sprintf("priority sampling: kept top %d of %d items by SEO value", len(sampled), len(items)),
			fmt.Sprintf("highest score %d, lowest kept score %d", ranked[0].score, ranked[sampleSize-1].score),
		},
	}
}

// priorityScore ranks an item by content-type weight, URL pattern and
// content length. Never negative.
func priorityScore(item model.ContentItem, contentType model.ContentType) int {
	score := contentType.BaseWeight()
	score += urlPatternBonus(item.URL)

	switch {
	case len(item.Content) > 100:
		score += 10
	case len(item.Content) < 20:
		score -= 20
	}

	if score < 0 {
		score = 0
	}
	return score
}

// urlPatternBonus rewards pages whose duplication hurts rankings most
func urlPatternBonus(rawURL string) int {
	normalized := similarity.NormalizeURL(rawURL)
	if normalized == "" {
		return 0
	}

	path := ""
	if i := strings.Index(normalized, "://"); i >= 0 {
		rest := normalized[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			path = strings.ToLower(rest[j:])
		}
	}

	if path == "" || path == "/" {
		return 30 // homepage
	}

	bonus := 0
	switch {
	case strings.Contains(path, "landing"):
		bonus = 25
	case strings.Contains(path, "about"), strings.Contains(path, "contact"), strings.Contains(path, "service"):
		bonus = 20
	case strings.Contains(path, "product"), strings.Contains(path, "category"):
		bonus = 15
	}
	return bonus
}

// sampleCluster greedily partitions the corpus into word-overlap clusters
// and draws from every cluster, so each topic keeps a voice in the sample.
// Centroids are first-seen-wins: iteration order decides cluster identity
// and no re-balancing happens afterwards.
func sampleCluster(items []model.ContentItem, sampleSize int) model.SamplingResult {
	if sampleSize >= len(items) {
		return allSampled(items, "sample size covers the whole corpus")
	}

	type cluster struct {
		centroid int
		members  []int // Excluding the centroid
	}

	var clusters []cluster
	for i, item := range items {
		joined := false
		for ci := range clusters {
			if similarity.JaccardWordSimilarity(items[clusters[ci].centroid].Content, item.Content) >= clusterJoinThreshold {
				clusters[ci].members = append(clusters[ci].members, i)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, cluster{centroid: i})
		}
	}

	// Distribute slots: every cluster gets its centroid plus an equal share
	// of the remaining slots, remainder going to the first clusters
	picked := make([]bool, len(items))
	taken := 0
	perCluster := sampleSize / len(clusters)
	remainder := sampleSize % len(clusters)

	for ci, c := range clusters {
		if taken >= sampleSize {
			break
		}
		allot := perCluster
		if ci < remainder {
			allot++
		}
		if allot < 1 {
			allot = 1
		}

		picked[c.centroid] = true
		taken++
		for mi := 0; mi < allot-1 && mi < len(c.members) && taken < sampleSize; mi++ {
			picked[c.members[mi]] = true
			taken++
		}
	}

	sampled, excluded := partition(items, picked)
	return model.SamplingResult{
		Sampled:            sampled,
		Excluded:           excluded,
		Representativeness: retainedPercent(len(sampled), len(items)),
		Insights: []string{
			fmt.Sprintf("cluster sampling: %d clusters over %d items", len(clusters), len(items)),
			fmt.Sprintf("kept %d items including every cluster centroid", len(sampled)),
		},
	}
}

// allSampled returns the whole corpus as the sample
func allSampled(items []model.ContentItem, why string) model.SamplingResult {
	return model.SamplingResult{
		Sampled:            append([]model.ContentItem{}, items...),
		Excluded:           []model.ContentItem{},
		Representativeness: 100,
		Insights:           []string{why},
	}
}

// partition splits items into (picked, rest) preserving input order
func partition(items []model.ContentItem, picked []bool) (sampled, excluded []model.ContentItem) {
	sampled = []model.ContentItem{}
	excluded = []model.ContentItem{}
	for i, item := range items {
		if picked[i] {
			sampled = append(sampled, item)
		} else {
			excluded = append(excluded, item)
		}
	}
	return sampled, excluded
}

package similarity

import (
	"fmt"
	"testing"

	"github.com/rkuznets/dupaudit/internal/model"
)

func item(content, url string) model.ContentItem {
	return model.ContentItem{Content: content, URL: url}
}

func TestDetect_EmptyInput(t *testing.T) {
	d := NewDetector(DefaultOptions())

	result := d.Detect(nil)
	if len(result.DuplicateGroups) != 0 {
		t.Errorf("expected no groups, got %d", len(result.DuplicateGroups))
	}
	if result.DuplicateCount != 0 || result.TotalAnalyzed != 0 {
		t.Errorf("expected zeroed counters, got count=%d analyzed=%d",
			result.DuplicateCount, result.TotalAnalyzed)
	}
	if result.Examples == nil || result.DuplicateGroups == nil {
		t.Error("expected empty slices, not nil")
	}
}

func TestDetect_ShortItemsIgnored(t *testing.T) {
	d := NewDetector(DefaultOptions())

	items := []model.ContentItem{
		item("short", "https://example.com/a"),
		item("short", "https://example.com/b"),
	}

	result := d.Detect(items)
	if result.TotalAnalyzed != 0 {
		t.Errorf("expected items below min length to be excluded, analyzed=%d", result.TotalAnalyzed)
	}
	if len(result.DuplicateGroups) != 0 {
		t.Errorf("expected no groups from short items, got %d", len(result.DuplicateGroups))
	}
}

func TestDetect_ExactTier(t *testing.T) {
	d := NewDetector(DefaultOptions())

	items := []model.ContentItem{
		item("Home | Acme", "https://example.com/"),
		item("home | ACME", "https://example.com/index"),
		item("About Us | Acme", "https://example.com/about"),
	}

	result := d.Detect(items)
	if len(result.DuplicateGroups) != 1 {
		t.Fatalf("expected exactly 1 group, got %d", len(result.DuplicateGroups))
	}

	g := result.DuplicateGroups[0]
	if g.Similarity != 100 {
		t.Errorf("exact tier similarity = %d, want 100", g.Similarity)
	}
	if len(g.Items) != 2 {
		t.Errorf("expected 2 members, got %d", len(g.Items))
	}
	if g.RepresentativeContent != "Home | Acme" {
		t.Errorf("representative = %q, want first occurrence", g.RepresentativeContent)
	}
	if result.Stats.ExactGroups != 1 || result.Stats.FuzzyGroups != 0 || result.Stats.SemanticGroups != 0 {
		t.Errorf("unexpected tier stats: %+v", result.Stats)
	}
	if result.DuplicateCount != 1 {
		t.Errorf("duplicate count = %d, want 1 (excess occurrences)", result.DuplicateCount)
	}
}

func TestDetect_SameURLNeverSelfDuplicate(t *testing.T) {
	d := NewDetector(DefaultOptions())

	// Identical content from the same page under two URL spellings is not
	// a duplicate group
	items := []model.ContentItem{
		item("Welcome to Acme Corp", "https://www.example.com/page"),
		item("Welcome to Acme Corp", "https://example.com/page/"),
	}

	result := d.Detect(items)
	if len(result.DuplicateGroups) != 0 {
		t.Fatalf("expected same-page spellings to collapse, got %d groups", len(result.DuplicateGroups))
	}
}

func TestDetect_EveryGroupHasDistinctURLs(t *testing.T) {
	d := NewDetector(DefaultOptions())

	var items []model.ContentItem
	for i := 0; i < 8; i++ {
		items = append(items, item("Shared boilerplate heading", fmt.Sprintf("https://example.com/p%d", i%4)))
	}
	items = append(items, item("Best running shoes online", "https://example.com/shoes"))
	items = append(items, item("Best running boots online", "https://example.com/boots"))

	result := d.Detect(items)
	for gi, g := range result.DuplicateGroups {
		if len(g.Items) < 2 {
			t.Errorf("group %d has %d members, want >= 2", gi, len(g.Items))
		}
		seen := make(map[string]bool)
		for _, it := range g.Items {
			key := NormalizeURL(it.URL)
			if seen[key] {
				t.Errorf("group %d repeats page %s", gi, key)
			}
			seen[key] = true
		}
	}
}

func TestDetect_TierExclusivity(t *testing.T) {
	d := NewDetector(DefaultOptions())

	// Exact duplicates must not be re-reported by the fuzzy or semantic tier
	items := []model.ContentItem{
		item("Best Running Shoes | Acme", "https://example.com/a"),
		item("Best Running Shoes | Acme", "https://example.com/b"),
		item("Best Running Shoes | Acme", "https://example.com/c"),
	}

	result := d.Detect(items)
	if len(result.DuplicateGroups) != 1 {
		t.Fatalf("expected 1 group total, got %d", len(result.DuplicateGroups))
	}
	if result.Stats.FuzzyGroups != 0 || result.Stats.SemanticGroups != 0 {
		t.Errorf("later tiers re-reported claimed items: %+v", result.Stats)
	}

	// No item appears in more than one group
	occurrences := make(map[string]int)
	for _, g := range result.DuplicateGroups {
		for _, it := range g.Items {
			occurrences[it.URL]++
		}
	}
	for url, n := range occurrences {
		if n > 1 {
			t.Errorf("URL %s appears in %d groups", url, n)
		}
	}
}

func TestDetect_FuzzyTier(t *testing.T) {
	d := NewDetector(DefaultOptions())

	items := []model.ContentItem{
		item("Best Running Shoes for Men 2024", "https://example.com/a"),
		item("Best Running Shoes for Men 2025", "https://example.com/b"),
		item("Contact our support department", "https://example.com/c"),
	}

	result := d.Detect(items)
	if result.Stats.ExactGroups != 0 {
		t.Errorf("expected no exact groups, got %d", result.Stats.ExactGroups)
	}
	if result.Stats.FuzzyGroups != 1 {
		t.Fatalf("expected 1 fuzzy group, got %d (stats %+v)", result.Stats.FuzzyGroups, result.Stats)
	}

	g := result.DuplicateGroups[0]
	if g.Similarity <= 0 || g.Similarity > 100 {
		t.Errorf("similarity %d out of range", g.Similarity)
	}
	if g.Similarity == 100 {
		t.Error("fuzzy group of non-identical items should score below 100")
	}
}

func TestDetect_SemanticTier(t *testing.T) {
	d := NewDetector(Options{
		FuzzyMatchThreshold: 95, // Keep these pairs out of the fuzzy tier
		SemanticThreshold:   60,
		MinContentLength:    10,
	})

	// Same phrasing reordered around a shared keyphrase backbone
	items := []model.ContentItem{
		item("discover the best running shoes for daily training sessions", "https://example.com/a"),
		item("the best running shoes for daily training sessions reviewed here", "https://example.com/b"),
		item("fresh garden vegetables delivered weekly to your door", "https://example.com/c"),
	}

	result := d.Detect(items)
	if result.Stats.SemanticGroups != 1 {
		t.Fatalf("expected 1 semantic group, got %d (stats %+v)", result.Stats.SemanticGroups, result.Stats)
	}
	if len(result.DuplicateGroups[0].Items) != 2 {
		t.Errorf("expected 2 members, got %d", len(result.DuplicateGroups[0].Items))
	}
}

func TestDetect_TwelvePageBoilerplate(t *testing.T) {
	d := NewDetector(Options{
		FuzzyMatchThreshold: 85,
		SemanticThreshold:   75,
		MinContentLength:    3,
	})

	var items []model.ContentItem
	for i := 0; i < 12; i++ {
		items = append(items, item("Welcome", fmt.Sprintf("https://example.com/page-%d", i)))
	}

	result := d.Detect(items)
	if len(result.DuplicateGroups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result.DuplicateGroups))
	}

	g := result.DuplicateGroups[0]
	if len(g.Items) != 12 {
		t.Errorf("expected all 12 pages in the group, got %d", len(g.Items))
	}
	if result.DuplicateCount != 11 {
		t.Errorf("duplicate count = %d, want 11", result.DuplicateCount)
	}
	if level := model.ImpactFromURLCount(len(g.Items)); level != model.ImpactCritical {
		t.Errorf("impact = %s, want %s", level, model.ImpactCritical)
	}
}

func TestDetect_Examples(t *testing.T) {
	d := NewDetector(DefaultOptions())

	var items []model.ContentItem
	for i := 0; i < 7; i++ {
		title := fmt.Sprintf("Repeated title number %d", i/2)
		items = append(items, item(title, fmt.Sprintf("https://example.com/p%d", i)))
	}

	result := d.Detect(items)
	if len(result.Examples) == 0 {
		t.Fatal("expected examples for detected groups")
	}
	if len(result.Examples) > 5 {
		t.Errorf("examples capped at 5, got %d", len(result.Examples))
	}
	for _, e := range result.Examples {
		if e == "" {
			t.Error("examples must be non-empty")
		}
	}
}

func TestCollectExamples_LargestFirst(t *testing.T) {
	groups := []model.ContentGroup{
		{RepresentativeContent: "small", Items: make([]model.ContentItem, 2)},
		{RepresentativeContent: "large", Items: make([]model.ContentItem, 5)},
		{RepresentativeContent: "medium", Items: make([]model.ContentItem, 3)},
	}

	examples := collectExamples(groups, 2)
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if examples[0] != "large" || examples[1] != "medium" {
		t.Errorf("expected largest-first ordering, got %v", examples)
	}
}

package sampling

import (
	"fmt"
	"testing"

	"github.com/rkuznets/dupaudit/internal/model"
	"github.com/rkuznets/dupaudit/internal/similarity"
)

func TestSampleRepresentative_PreservesDuplicatePairs(t *testing.T) {
	var items []model.ContentItem

	// Three exact copies buried in a corpus of unique items
	for i := 0; i < 30; i++ {
		content := fmt.Sprintf("unique page title variant %d for testing", i)
		if i == 4 || i == 13 || i == 27 {
			content = "Duplicated Boilerplate Title"
		}
		items = append(items, model.ContentItem{
			Content: content,
			URL:     fmt.Sprintf("https://example.com/p%d", i),
		})
	}

	result := sampleRepresentative(items, 10)
	if len(result.Sampled) > 10 {
		t.Fatalf("sampled %d, cap is 10", len(result.Sampled))
	}

	kept := 0
	for _, it := range result.Sampled {
		if it.Content == "Duplicated Boilerplate Title" {
			kept++
		}
	}
	if kept != 2 {
		t.Errorf("expected exactly 2 duplicate-group members preserved, got %d", kept)
	}
}

func TestSampleRepresentative_WholeCorpusFits(t *testing.T) {
	items := makeItems(5, 40)
	result := sampleRepresentative(items, 25)

	if len(result.Sampled) != 5 || len(result.Excluded) != 0 {
		t.Errorf("expected whole corpus sampled, got %d/%d", len(result.Sampled), len(result.Excluded))
	}
	if result.Representativeness != 100 {
		t.Errorf("representativeness = %d, want 100", result.Representativeness)
	}
}

func TestSamplePriority_HighValuePagesWin(t *testing.T) {
	long := "This meta description is comfortably over one hundred characters long so that the length bonus applies to it here."

	items := []model.ContentItem{
		{Content: long, URL: "https://example.com/blog/post-17"},
		{Content: long, URL: "https://example.com/"},
		{Content: long, URL: "https://example.com/products/widget"},
		{Content: long, URL: "https://example.com/blog/post-18"},
		{Content: long, URL: "https://example.com/about"},
		{Content: long, URL: "https://example.com/blog/post-19"},
	}

	result := samplePriority(items, 3, model.ContentTypeDescription)
	if len(result.Sampled) != 3 {
		t.Fatalf("sampled %d, want 3", len(result.Sampled))
	}

	want := map[string]bool{
		"https://example.com/":                true,
		"https://example.com/products/widget": true,
		"https://example.com/about":           true,
	}
	for _, it := range result.Sampled {
		if !want[it.URL] {
			t.Errorf("low-value page %s sampled ahead of bonus pages", it.URL)
		}
	}
}

func TestSamplePriority_RepresentativenessScaledDown(t *testing.T) {
	items := makeItems(100, 60)
	result := samplePriority(items, 30, model.ContentTypeParagraph)

	// 30% retained, scaled by the bias factor
	if result.Representativeness != 25 {
		t.Errorf("representativeness = %d, want 25", result.Representativeness)
	}
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name string
		item model.ContentItem
		ct   model.ContentType
		want int
	}{
		{
			"homepage title",
			model.ContentItem{Content: "A title of ordinary middling length", URL: "https://example.com/"},
			model.ContentTypeTitle,
			130,
		},
		{
			"landing page",
			model.ContentItem{Content: "A title of ordinary middling length", URL: "https://example.com/landing/offer"},
			model.ContentTypeTitle,
			125,
		},
		{
			"contact page",
			model.ContentItem{Content: "A title of ordinary middling length", URL: "https://example.com/contact"},
			model.ContentTypeTitle,
			120,
		},
		{
			"category page",
			model.ContentItem{Content: "A title of ordinary middling length", URL: "https://example.com/category/shoes"},
			model.ContentTypeTitle,
			115,
		},
		{
			"plain page short content",
			model.ContentItem{Content: "tiny", URL: "https://example.com/blog/x"},
			model.ContentTypeParagraph,
			20,
		},
		{
			"never negative",
			model.ContentItem{Content: "tiny", URL: "invalid"},
			model.ContentType("unknown"),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priorityScore(tt.item, tt.ct); got != tt.want {
				t.Errorf("priorityScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSampleCluster_EveryTopicRepresented(t *testing.T) {
	var items []model.ContentItem

	topics := []string{
		"premium running shoes for marathon athletes and daily training",
		"fresh organic vegetables delivered weekly from local farms",
		"cloud hosting plans with managed backups and monitoring",
		"handmade ceramic mugs glazed in small studio batches",
		"beginner piano lessons with certified music teachers online",
	}
	for i := 0; i < 200; i++ {
		items = append(items, model.ContentItem{
			Content: topics[i%len(topics)],
			URL:     fmt.Sprintf("https://example.com/p%d", i),
		})
	}

	result := sampleCluster(items, 40)
	if len(result.Sampled) > 40 {
		t.Fatalf("sampled %d, cap is 40", len(result.Sampled))
	}
	if len(result.Sampled)+len(result.Excluded) != 200 {
		t.Fatalf("partition broken: %d + %d", len(result.Sampled), len(result.Excluded))
	}

	// Every topic keeps a voice: in particular every centroid (the first
	// occurrence of each topic) must be in the sample
	seen := make(map[string]bool)
	for _, it := range result.Sampled {
		seen[similarity.NormalizeContentKey(it.Content)] = true
	}
	for _, topic := range topics {
		if !seen[similarity.NormalizeContentKey(topic)] {
			t.Errorf("topic %q has no representative in the sample", topic)
		}
	}
	for i := 0; i < len(topics); i++ {
		found := false
		for _, it := range result.Sampled {
			if it.URL == fmt.Sprintf("https://example.com/p%d", i) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("centroid p%d not sampled", i)
		}
	}
}

func TestSampleCluster_SlotsSplitAcrossClusters(t *testing.T) {
	var items []model.ContentItem
	for i := 0; i < 20; i++ {
		items = append(items, model.ContentItem{
			Content: "articles about mountain hiking trails and summit routes",
			URL:     fmt.Sprintf("https://example.com/hike/%d", i),
		})
	}
	for i := 0; i < 20; i++ {
		items = append(items, model.ContentItem{
			Content: "recipes for winter soups with seasonal root vegetables",
			URL:     fmt.Sprintf("https://example.com/soup/%d", i),
		})
	}

	result := sampleCluster(items, 10)
	if len(result.Sampled) != 10 {
		t.Fatalf("sampled %d, want 10", len(result.Sampled))
	}

	hikes, soups := 0, 0
	for _, it := range result.Sampled {
		if it.Content[0] == 'a' {
			hikes++
		} else {
			soups++
		}
	}
	if hikes != 5 || soups != 5 {
		t.Errorf("expected an even 5/5 split, got %d/%d", hikes, soups)
	}
}

package llm

import (
	"strings"
	"testing"

	"github.com/rkuznets/dupaudit/internal/model"
)

func TestParseEnrichment_Valid(t *testing.T) {
	response := `{"duplicateGroups": [{
		"content": "Home | Acme",
		"urls": ["https://example.com/", "https://example.com/index"],
		"similarityScore": 100,
		"impactLevel": "low",
		"priority": 2,
		"rootCause": "shared template",
		"improvementStrategy": "write unique titles per page"
	}]}`

	groups, err := ParseEnrichment(response)
	if err != nil {
		t.Fatalf("ParseEnrichment failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.Content != "Home | Acme" {
		t.Errorf("content = %q", g.Content)
	}
	if len(g.URLs) != 2 {
		t.Errorf("expected 2 urls, got %d", len(g.URLs))
	}
	if g.Priority != 2 || g.ImpactLevel != "low" {
		t.Errorf("unexpected fields: priority=%d impact=%s", g.Priority, g.ImpactLevel)
	}
}

func TestParseEnrichment_WrappedInProse(t *testing.T) {
	response := "Here is the analysis:\n```json\n" +
		`{"duplicateGroups": [{"content": "x y z", "urls": [], "similarityScore": 90}]}` +
		"\n```\nLet me know if you need more."

	groups, err := ParseEnrichment(response)
	if err != nil {
		t.Fatalf("ParseEnrichment failed on fenced JSON: %v", err)
	}
	if len(groups) != 1 || groups[0].SimilarityScore != 90 {
		t.Errorf("unexpected result: %+v", groups)
	}
}

func TestParseEnrichment_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no json at all", "I could not produce the analysis."},
		{"truncated json", `{"duplicateGroups": [{"content": "x"`},
		{"malformed json", `{duplicateGroups: nope}`},
		{"empty content", `{"duplicateGroups": [{"content": "   ", "similarityScore": 50}]}`},
		{"score out of range", `{"duplicateGroups": [{"content": "x", "similarityScore": 150}]}`},
		{"unknown impact", `{"duplicateGroups": [{"content": "x", "impactLevel": "severe"}]}`},
		{"priority out of range", `{"duplicateGroups": [{"content": "x", "priority": 9}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEnrichment(tt.response); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseEnrichment_EmptyGroups(t *testing.T) {
	groups, err := ParseEnrichment(`{"duplicateGroups": []}`)
	if err != nil {
		t.Fatalf("empty group list should parse: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(groups))
	}
}

func TestEnrichedGroupValidate(t *testing.T) {
	valid := EnrichedGroup{
		Content:         "duplicated heading",
		SimilarityScore: 80,
		ImpactLevel:     "high",
		Priority:        3,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid group rejected: %v", err)
	}

	// Optional fields may be absent entirely
	minimal := EnrichedGroup{Content: "duplicated heading"}
	if err := minimal.Validate(); err != nil {
		t.Errorf("minimal group rejected: %v", err)
	}
}

func TestBuildEnrichPrompt(t *testing.T) {
	req := EnrichRequest{
		ContentType: model.ContentTypeTitle,
		Items: []model.ContentItem{
			{Content: "Home | Acme", URL: "https://example.com/"},
			{Content: "About | Acme", URL: "https://example.com/about"},
		},
		Groups: []model.ContentGroup{
			{
				RepresentativeContent: "Home | Acme",
				Items:                 make([]model.ContentItem, 3),
				Similarity:            100,
			},
		},
	}

	prompt := BuildEnrichPrompt(req)

	for _, want := range []string{
		"title",
		"https://example.com/about",
		`"Home | Acme"`,
		"3 pages",
		"duplicateGroups",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"with prose", `result: {"a": 1} done`, `{"a": 1}`},
		{"no object", "nothing here", ""},
		{"only close brace", "} oops", ""},
		{"nested", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.input); got != tt.want {
				t.Errorf("extractJSONObject(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

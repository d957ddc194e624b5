package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rkuznets/dupaudit/internal/model"
)

// Provider defines the interface for completion-service providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Enrich asks the model to explain and prioritize duplicate groups for
	// one batch of sampled content items
	Enrich(ctx context.Context, req EnrichRequest) (*EnrichResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// EnrichRequest contains one batch of sampled items plus the rule-based
// groups already detected among them
type EnrichRequest struct {
	// ContentType labels the batch (title, description, heading, paragraph)
	ContentType model.ContentType

	// Items are the sampled content items of this batch (10 or fewer)
	Items []model.ContentItem

	// Groups are the rule-based duplicate groups found among Items
	Groups []model.ContentGroup

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// EnrichResponse contains the model's structured findings
type EnrichResponse struct {
	// Groups are the validated duplicate-group objects from the response
	Groups []EnrichedGroup

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// EnrichedGroup is one duplicate-group object as returned by the model.
// Optional fields stay zero-valued when the model omits them; Validate
// rejects shapes that cannot be merged safely.
type EnrichedGroup struct {
	Content             string   `json:"content"`
	URLs                []string `json:"urls"`
	SimilarityScore     int      `json:"similarityScore"`
	ImpactLevel         string   `json:"impactLevel"`
	Priority            int      `json:"priority"`
	RootCause           string   `json:"rootCause"`
	ImprovementStrategy string   `json:"improvementStrategy"`
	Keyword             string   `json:"keyword,omitempty"`
}

// enrichmentPayload is the expected top-level response shape
type enrichmentPayload struct {
	DuplicateGroups []EnrichedGroup `json:"duplicateGroups"`
}

// Config holds completion-service provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
		NoProxy:    modelConfig.NoProxy,
	}
}

const enrichSystemPrompt = "You are an SEO analyst. You explain why pages share duplicated content and how to fix it. You respond with valid JSON only, no prose."

// BuildEnrichPrompt constructs the default prompt for one enrichment batch
func BuildEnrichPrompt(req EnrichRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Analyze duplicated %s content from a website crawl.

Sampled items (URL -> content):
`, req.ContentType)

	for _, item := range req.Items {
		fmt.Fprintf(&b, "- %s -> %q\n", item.URL, item.Content)
	}

	b.WriteString("\nRule-based duplicate groups already detected:\n")
	for _, g := range req.Groups {
		fmt.Fprintf(&b, "- %q shared by %d pages (similarity %d)\n",
			g.RepresentativeContent, len(g.Items), g.Similarity)
	}

	b.WriteString(`
For each duplicate group, determine the likely root cause (e.g. shared
template, boilerplate, thin content) and a concrete improvement strategy.
You may refine similarityScore (0-100), impactLevel (critical|high|medium|low)
and priority (1-5). Only reference URLs from the sampled items above.

Respond with a JSON object of this exact shape:
{"duplicateGroups": [{"content": "...", "urls": ["..."], "similarityScore": 0,
"impactLevel": "low", "priority": 1, "rootCause": "...",
"improvementStrategy": "..."}]}`)

	return b.String()
}

// ParseEnrichment extracts and validates the JSON payload from a model
// response. Any parse failure or schema mismatch fails the whole batch; the
// caller then keeps its rule-based results unmodified.
func ParseEnrichment(text string) ([]EnrichedGroup, error) {
	raw := extractJSONObject(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal enrichment: %w", err)
	}

	for i, g := range payload.DuplicateGroups {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
	}

	return payload.DuplicateGroups, nil
}

// Validate checks one group against the merge schema
func (g EnrichedGroup) Validate() error {
	if strings.TrimSpace(g.Content) == "" {
		return fmt.Errorf("empty content")
	}
	if g.SimilarityScore < 0 || g.SimilarityScore > 100 {
		return fmt.Errorf("similarityScore %d out of range", g.SimilarityScore)
	}
	if g.ImpactLevel != "" && !model.ValidImpactLevel(g.ImpactLevel) {
		return fmt.Errorf("unknown impactLevel %q", g.ImpactLevel)
	}
	if g.Priority < 0 || g.Priority > 5 {
		return fmt.Errorf("priority %d out of range", g.Priority)
	}
	return nil
}

// extractJSONObject returns the outermost {...} span of text, tolerating
// models that wrap JSON in prose or code fences
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

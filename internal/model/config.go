package model

import "time"

// Config is the complete runtime configuration for dupaudit
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Budget     BudgetConfig     `yaml:"budget" mapstructure:"budget"`
	Enrichment EnrichmentConfig `yaml:"enrichment" mapstructure:"enrichment"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the completion-service provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" = disabled
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per request
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// BudgetConfig seeds the per-run token allowance
type BudgetConfig struct {
	Tokens int `yaml:"tokens" mapstructure:"tokens"`
}

// EnrichmentConfig tunes the batched completion-service calls
type EnrichmentConfig struct {
	BatchSize         int           `yaml:"batch_size" mapstructure:"batch_size"`               // Items per batch
	Concurrency       int           `yaml:"concurrency" mapstructure:"concurrency"`             // Batches in flight
	InterBatchDelay   time.Duration `yaml:"inter_batch_delay" mapstructure:"inter_batch_delay"` // Throttle between dispatches
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls the run-scoped response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultTokenBudget is the allowance seeded per run when none is configured
const DefaultTokenBudget = 15000

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 1000,
		},
		Budget: BudgetConfig{
			Tokens: DefaultTokenBudget,
		},
		Enrichment: EnrichmentConfig{
			BatchSize:         10,
			Concurrency:       3,
			InterBatchDelay:   120 * time.Millisecond,
			RequestsPerSecond: 2,
			Burst:             3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

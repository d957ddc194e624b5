package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rkuznets/dupaudit/internal/analyzer"
	"github.com/rkuznets/dupaudit/internal/model"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	tokenBudget int
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <pages.json>",
	Short: "Analyze crawled pages for duplicated content",
	Long: `Analyze reads a JSON file of page records produced by the crawler
(an array of {url, title, meta_description, headings, paragraphs} objects)
and reports which titles, descriptions, headings and paragraphs are
duplicated or near-duplicated across pages.

Example:
  dupaudit analyze pages.json
  dupaudit analyze pages.json --json report.json --md report.md
  dupaudit analyze pages.json --llm openai --llm-model gpt-4o-mini
  dupaudit analyze pages.json --token-budget 5000`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Run flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().IntVar(&tokenBudget, "token-budget", model.DefaultTokenBudget, "token allowance for model-assisted enrichment")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the run-scoped response cache")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable model-assisted enrichment")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	pagesPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pages, err := readPages(pagesPath)
	if err != nil {
		return fmt.Errorf("read pages: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (%d page records)\n", pagesPath, len(pages))
		fmt.Fprintf(os.Stderr, "Token budget: %d\n", tokenBudget)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Budget.Tokens = tokenBudget
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	a := analyzer.New(cfg)
	if verbose {
		a.OnEvent(func(e analyzer.Event) {
			if e.ContentType != "" {
				fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", e.Type, e.ContentType, e.Message)
			} else {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Type, e.Message)
			}
		})
	}

	report, stats, err := a.AnalyzeWithStats(ctx, pages)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	renderer := analyzer.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(report, stats, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)

	return nil
}

// readPages loads the crawler's page-record file
func readPages(path string) ([]model.PageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var pages []model.PageRecord
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse page records: %w", err)
	}

	return pages, nil
}

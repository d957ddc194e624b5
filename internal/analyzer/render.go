package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rkuznets/dupaudit/internal/model"
)

// Renderer writes analysis reports to files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.ContentDuplicationAnalysis, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes a human-readable summary of the report
func (r *Renderer) RenderMarkdown(report *model.ContentDuplicationAnalysis, stats *model.AnalysisStats, path string) error {
	var b strings.Builder

	b.WriteString("# Content Duplication Report\n\n")
	fmt.Fprintf(&b, "Analyzed **%d pages** (%s).\n\n", report.TotalPages, report.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	writeSection(&b, "Titles", report.TitleRepetition)
	writeSection(&b, "Meta Descriptions", report.DescriptionRepetition)
	writeSection(&b, "Headings", report.HeadingRepetition.RepetitionSection)
	if len(report.HeadingRepetition.ByLevel) > 0 {
		b.WriteString("| Level | Duplicated | Total |\n|---|---|---|\n")
		for level := 1; level <= 6; level++ {
			if s, ok := report.HeadingRepetition.ByLevel[level]; ok {
				fmt.Fprintf(&b, "| H%d | %d | %d |\n", level, s.RepetitiveCount, s.TotalCount)
			}
		}
		b.WriteString("\n")
	}
	writeSection(&b, "Paragraphs", report.ParagraphRepetition)

	b.WriteString("## Recommendations\n\n")
	for _, rec := range report.OverallRecommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	b.WriteString("\n")

	if stats != nil {
		b.WriteString("## Run Statistics\n\n")
		fmt.Fprintf(&b, "- Duration: %v\n", stats.Duration.Round(time.Millisecond))
		fmt.Fprintf(&b, "- Tokens used: %d\n", stats.TokensUsed)
		fmt.Fprintf(&b, "- Model calls: %d\n", stats.ModelCalls)
		for contentType, s := range stats.Sampling {
			fmt.Fprintf(&b, "- Sampling (%s): %s, %d of %d items, representativeness %d%%\n",
				contentType, s.Method, s.SampleSize, s.InputSize, s.Representativeness)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by dupaudit.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	return nil
}

// RenderSummary prints a terminal summary
func (r *Renderer) RenderSummary(report *model.ContentDuplicationAnalysis) {
	fmt.Println()
	fmt.Println("Content Duplication Summary")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Pages analyzed:       %d\n", report.TotalPages)
	fmt.Printf("Duplicated titles:    %d of %d\n", report.TitleRepetition.RepetitiveCount, report.TitleRepetition.TotalCount)
	fmt.Printf("Duplicated descrs:    %d of %d\n", report.DescriptionRepetition.RepetitiveCount, report.DescriptionRepetition.TotalCount)
	fmt.Printf("Duplicated headings:  %d of %d\n", report.HeadingRepetition.RepetitiveCount, report.HeadingRepetition.TotalCount)
	fmt.Printf("Duplicated paragraphs: %d of %d\n", report.ParagraphRepetition.RepetitiveCount, report.ParagraphRepetition.TotalCount)
	fmt.Println()
	for _, rec := range report.OverallRecommendations {
		fmt.Printf("  %s\n", rec)
	}
	fmt.Println()
}

func writeSection(b *strings.Builder, name string, section model.RepetitionSection) {
	fmt.Fprintf(b, "## %s\n\n", name)
	fmt.Fprintf(b, "%d duplicated occurrences across %d items.\n\n", section.RepetitiveCount, section.TotalCount)

	if len(section.DuplicateGroups) > 0 {
		for _, g := range section.DuplicateGroups {
			fmt.Fprintf(b, "- **[%s]** %q on %d pages (similarity %d)\n", g.ImpactLevel, g.Content, len(g.URLs), g.SimilarityScore)
			if g.RootCause != "" {
				fmt.Fprintf(b, "  - Root cause: %s\n", g.RootCause)
			}
			if g.ImprovementStrategy != "" {
				fmt.Fprintf(b, "  - Fix: %s\n", g.ImprovementStrategy)
			}
		}
		b.WriteString("\n")
	}
}

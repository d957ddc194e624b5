package analyzer

import (
	"fmt"

	"github.com/rkuznets/dupaudit/internal/model"
)

// Duplication-ratio thresholds for the strategic recommendation
const (
	templatedRedesignRatio = 0.30
	landingFocusRatio      = 0.15
)

// typeRecommendations produces the per-section advice lines
func typeRecommendations(contentType model.ContentType, duplicateCount, total int) []string {
	if duplicateCount == 0 {
		return []string{fmt.Sprintf("No duplicated %s content detected across %d items.", contentType, total)}
	}

	recs := []string{
		fmt.Sprintf("Found %d duplicated %s occurrences across %d items.", duplicateCount, contentType, total),
	}

	switch contentType {
	case model.ContentTypeTitle:
		recs = append(recs,
			"Write a unique title for every page; include the page's primary topic and brand.",
			"Duplicated titles make pages compete against each other in search results.")
	case model.ContentTypeDescription:
		recs = append(recs,
			"Give each page a distinct meta description summarizing its specific content.",
			"Pages without distinct descriptions fall back to auto-generated snippets.")
	case model.ContentTypeHeading:
		recs = append(recs,
			"Vary H1 headings so each page states its own topic rather than a site-wide slogan.")
	case model.ContentTypeParagraph:
		recs = append(recs,
			"Rewrite boilerplate paragraphs per page or move them into a shared layout element.")
	}

	return recs
}

// overallRecommendations synthesizes the run-level advice: severity lines
// per affected section, a strategic note based on how much of the site is
// affected, and a closing tally
func overallRecommendations(report *model.ContentDuplicationAnalysis) []string {
	var recs []string

	if report.TitleRepetition.RepetitiveCount > 0 {
		recs = append(recs, fmt.Sprintf(
			"[Critical] %d pages share duplicated titles - fixing these has the highest SEO payoff.",
			affectedPages(report.TitleRepetition.DuplicateGroups)))
	}
	if report.DescriptionRepetition.RepetitiveCount > 0 {
		recs = append(recs, fmt.Sprintf(
			"[High] %d pages share duplicated meta descriptions - rewrite them after the titles.",
			affectedPages(report.DescriptionRepetition.DuplicateGroups)))
	}
	if report.HeadingRepetition.RepetitiveCount > 0 {
		recs = append(recs, fmt.Sprintf(
			"[Medium] %d pages share duplicated headings - review shared templates.",
			affectedPages(report.HeadingRepetition.DuplicateGroups)))
	}

	totalDuplicates := report.TitleRepetition.RepetitiveCount +
		report.DescriptionRepetition.RepetitiveCount +
		report.HeadingRepetition.RepetitiveCount +
		report.ParagraphRepetition.RepetitiveCount

	if report.TotalPages > 0 {
		affected := allAffectedPages(report)
		ratio := float64(affected) / float64(report.TotalPages)
		switch {
		case ratio > templatedRedesignRatio:
			recs = append(recs, fmt.Sprintf(
				"Over %.0f%% of pages are affected - the content template itself likely needs a redesign.", ratio*100))
		case ratio > landingFocusRatio:
			recs = append(recs, fmt.Sprintf(
				"%.0f%% of pages are affected - start with landing and product pages where duplication costs the most.", ratio*100))
		}
	}

	recs = append(recs, fmt.Sprintf(
		"Analyzed %d pages: %d duplicated occurrences across titles, descriptions, headings and paragraphs.",
		report.TotalPages, totalDuplicates))

	return recs
}

// affectedPages counts distinct URLs across a section's groups
func affectedPages(groups []model.DuplicateItem) int {
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, u := range g.URLs {
			seen[u] = true
		}
	}
	return len(seen)
}

// allAffectedPages counts distinct URLs across the whole report
func allAffectedPages(report *model.ContentDuplicationAnalysis) int {
	seen := make(map[string]bool)
	for _, groups := range [][]model.DuplicateItem{
		report.TitleRepetition.DuplicateGroups,
		report.DescriptionRepetition.DuplicateGroups,
		report.HeadingRepetition.DuplicateGroups,
		report.ParagraphRepetition.DuplicateGroups,
	} {
		for _, g := range groups {
			for _, u := range g.URLs {
				seen[u] = true
			}
		}
	}
	return len(seen)
}

package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/rkuznets/dupaudit/internal/budget"
	"github.com/rkuznets/dupaudit/internal/cache"
	"github.com/rkuznets/dupaudit/internal/extract"
	"github.com/rkuznets/dupaudit/internal/llm"
	"github.com/rkuznets/dupaudit/internal/model"
	"github.com/rkuznets/dupaudit/internal/sampling"
	"github.com/rkuznets/dupaudit/internal/similarity"
)

// headingPostPassMinBudget gates the rule-only H2-H6 pass: it costs no
// tokens itself but is skipped on nearly exhausted runs to bound latency
const headingPostPassMinBudget = 1000

// maxHeadingExamples caps the merged heading example list
const maxHeadingExamples = 10

// Analyzer drives the full content-duplication analysis: extraction,
// per-type sampling, rule-based detection and optional model-assisted
// enrichment, in fixed SEO-impact order (titles, descriptions, H1,
// paragraphs). One Analyzer may serve many runs; all mutable per-run state
// (budget, report, cache) is created inside Analyze.
type Analyzer struct {
	cfg       *model.Config
	extractor *extract.Extractor
	selector  *sampling.Selector
	events    EventFunc
}

// New creates an analyzer with the given configuration
func New(cfg *model.Config) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Analyzer{
		cfg:       cfg,
		extractor: extract.NewExtractor(),
		selector:  sampling.NewSelector(),
	}
}

// OnEvent registers a progress event handler
func (a *Analyzer) OnEvent(fn EventFunc) {
	a.events = fn
}

// Analyze runs the full pipeline and returns the report
func (a *Analyzer) Analyze(ctx context.Context, pages []model.PageRecord) (*model.ContentDuplicationAnalysis, error) {
	report, _, err := a.AnalyzeWithStats(ctx, pages)
	return report, err
}

// AnalyzeWithStats runs the full pipeline and additionally returns
// performance statistics. Content types are processed strictly
// sequentially: each type's token consumption must be observed before the
// next type starts, so ordering is a correctness requirement here.
func (a *Analyzer) AnalyzeWithStats(ctx context.Context, pages []model.PageRecord) (*model.ContentDuplicationAnalysis, *model.AnalysisStats, error) {
	start := time.Now()
	a.emit(Event{Type: EventRunStarted, Message: fmt.Sprintf("analyzing %d page records", len(pages))})

	content := a.extractor.Extract(pages)

	tracker := budget.NewTracker(a.cfg.Budget.Tokens)
	stats := &model.AnalysisStats{
		Sampling: make(map[model.ContentType]model.TypeSamplingStats),
	}

	var runCache cache.Cache
	if a.cfg.Cache.Enabled {
		runCache = cache.NewMemoryCache(a.cfg.Cache.TTL, 2*a.cfg.Cache.TTL)
	}
	enricher := llm.NewEnricher(a.cfg, runCache)
	if enricher.Enabled() {
		stats.EnrichmentUsed = true
		enricher.OnBatch = func(o llm.BatchOutcome) {
			msg := "enrichment batch succeeded"
			if o.Err != nil {
				msg = fmt.Sprintf("enrichment batch failed: %v", o.Err)
			} else if o.FromCache {
				msg = "enrichment batch served from cache"
			}
			a.emit(Event{Type: EventBatchDone, ContentType: o.ContentType, Message: msg})
		}
	}

	report := &model.ContentDuplicationAnalysis{
		TitleRepetition:       model.EmptySection(),
		DescriptionRepetition: model.EmptySection(),
		HeadingRepetition:     model.HeadingRepetitionSection{RepetitionSection: model.EmptySection()},
		ParagraphRepetition:   model.EmptySection(),
		TotalPages:            content.TotalPages,
		GeneratedAt:           time.Now().UTC(),
	}

	// Fixed SEO-impact order: title and description duplication carries the
	// largest ranking penalty, so they get first claim on the budget
	passes := []struct {
		contentType model.ContentType
		items       []model.ContentItem
		opts        similarity.Options
		section     *model.RepetitionSection
	}{
		{model.ContentTypeTitle, content.Titles, titleOptions(), &report.TitleRepetition},
		{model.ContentTypeDescription, content.Descriptions, descriptionOptions(), &report.DescriptionRepetition},
		{model.ContentTypeHeading, content.HeadingLevel(1), headingOptions(), &report.HeadingRepetition.RepetitionSection},
		{model.ContentTypeParagraph, content.Paragraphs, paragraphOptions(), &report.ParagraphRepetition},
	}

	for _, pass := range passes {
		if ctx.Err() != nil {
			break // Cancelled: merge and return what is done
		}
		a.processType(ctx, pass.contentType, pass.items, pass.opts, pass.section, enricher, tracker, stats)
	}

	if ctx.Err() == nil && tracker.Remaining() > headingPostPassMinBudget {
		a.headingPostPass(content, report)
	}

	report.OverallRecommendations = overallRecommendations(report)

	stats.TokensUsed = a.cfg.Budget.Tokens - tracker.Remaining()
	if stats.TokensUsed < 0 {
		stats.TokensUsed = 0
	}
	stats.Duration = time.Since(start)

	a.emit(Event{Type: EventRunFinished, Message: fmt.Sprintf(
		"done in %v: %d tokens used, %d model calls", stats.Duration.Round(time.Millisecond), stats.TokensUsed, stats.ModelCalls)})

	return report, stats, nil
}

// processType carries one content type from Pending to Done: stats,
// sampling, rule-based detection, optional enrichment, merge. A failure at
// any stage leaves the section with whatever was produced so far; it never
// aborts the other types.
func (a *Analyzer) processType(
	ctx context.Context,
	contentType model.ContentType,
	items []model.ContentItem,
	opts similarity.Options,
	section *model.RepetitionSection,
	enricher *llm.Enricher,
	tracker *budget.Tracker,
	stats *model.AnalysisStats,
) {
	defer func() {
		if r := recover(); r != nil {
			a.emit(Event{Type: EventTypeFailed, ContentType: contentType, Message: fmt.Sprintf("recovered: %v", r)})
		}
	}()

	a.emit(Event{Type: EventTypeStarted, ContentType: contentType, Message: fmt.Sprintf("%d items", len(items))})

	section.TotalCount = len(items)
	if len(items) == 0 {
		a.emit(Event{Type: EventTypeFinished, ContentType: contentType, Message: "empty corpus"})
		return
	}

	// Sampled: one immutable strategy per type
	strategy := a.selector.SelectStrategy(items)
	sampled := a.selector.Apply(strategy, items, contentType)
	stats.Sampling[contentType] = model.TypeSamplingStats{
		Method:             strategy.Method,
		InputSize:          len(items),
		SampleSize:         len(sampled.Sampled),
		Representativeness: sampled.Representativeness,
	}
	a.emit(Event{Type: EventSamplingApplied, ContentType: contentType, Message: fmt.Sprintf(
		"%s: %d of %d items (representativeness %d%%)", strategy.Method, len(sampled.Sampled), len(items), sampled.Representativeness)})

	// RuleDetected: free, always runs
	detection := similarity.NewDetector(opts).Detect(sampled.Sampled)
	duplicates := duplicatesFromGroups(detection.DuplicateGroups)

	// EnrichedOrSkipped: paid, best-effort; falls back to rule-based results
	if enricher.Enabled() && len(detection.DuplicateGroups) > 0 && !tracker.Exhausted() && ctx.Err() == nil {
		var enrichStats llm.EnrichStats
		duplicates, enrichStats = enricher.EnrichType(ctx, contentType, sampled.Sampled, detection.DuplicateGroups, duplicates, tracker)
		stats.ModelCalls += enrichStats.ModelCalls
	} else if enricher.Enabled() {
		a.emit(Event{Type: EventEnrichSkipped, ContentType: contentType, Message: "budget exhausted or no duplicate groups"})
	}

	// Merged
	section.RepetitiveCount = detection.DuplicateCount
	section.Examples = detection.Examples
	section.DuplicateGroups = duplicates
	section.Recommendations = typeRecommendations(contentType, detection.DuplicateCount, len(items))

	a.emit(Event{Type: EventTypeFinished, ContentType: contentType, Message: fmt.Sprintf(
		"%d duplicate groups, %d excess occurrences", len(duplicates), detection.DuplicateCount)})
}

// headingPostPass runs rule-based detection over H2-H6 once the primary
// types are done, folding per-level stats and deduplicated examples into
// the heading section
func (a *Analyzer) headingPostPass(content extract.ExtractedContent, report *model.ContentDuplicationAnalysis) {
	section := &report.HeadingRepetition
	detector := similarity.NewDetector(headingOptions())

	seen := make(map[string]bool, len(section.Examples))
	for _, ex := range section.Examples {
		seen[ex] = true
	}

	byLevel := map[int]model.HeadingLevelStats{
		1: {Level: 1, RepetitiveCount: section.RepetitiveCount, TotalCount: section.TotalCount},
	}

	for level := 2; level <= 6; level++ {
		items := content.HeadingLevel(level)
		if len(items) == 0 {
			continue
		}

		detection := detector.Detect(items)
		byLevel[level] = model.HeadingLevelStats{
			Level:           level,
			RepetitiveCount: detection.DuplicateCount,
			TotalCount:      len(items),
		}

		section.RepetitiveCount += detection.DuplicateCount
		section.TotalCount += len(items)
		section.DuplicateGroups = append(section.DuplicateGroups, duplicatesFromGroups(detection.DuplicateGroups)...)

		for _, ex := range detection.Examples {
			if len(section.Examples) >= maxHeadingExamples {
				break
			}
			if !seen[ex] {
				seen[ex] = true
				section.Examples = append(section.Examples, ex)
			}
		}
	}

	section.ByLevel = byLevel
}

// duplicatesFromGroups converts detector groups to report items. Impact is
// a pure function of distinct page count and is always set here; enrichment
// may later refine it but can never leave it unset.
func duplicatesFromGroups(groups []model.ContentGroup) []model.DuplicateItem {
	items := make([]model.DuplicateItem, 0, len(groups))
	for _, g := range groups {
		urls := similarity.URLsOf(g.Items)
		items = append(items, model.DuplicateItem{
			Content:         g.RepresentativeContent,
			URLs:            urls,
			SimilarityScore: g.Similarity,
			ImpactLevel:     model.ImpactFromURLCount(len(urls)),
		})
	}
	return items
}

// Per-type detector thresholds: shorter content needs stricter fuzzy gates
// because small edit distances mean more there

func titleOptions() similarity.Options {
	return similarity.Options{
		ExactMatchThreshold: 100,
		FuzzyMatchThreshold: 85,
		SemanticThreshold:   75,
		MinContentLength:    5,
	}
}

func descriptionOptions() similarity.Options {
	return similarity.Options{
		ExactMatchThreshold: 100,
		FuzzyMatchThreshold: 80,
		SemanticThreshold:   70,
		MinContentLength:    15,
	}
}

func headingOptions() similarity.Options {
	return similarity.Options{
		ExactMatchThreshold: 100,
		FuzzyMatchThreshold: 85,
		SemanticThreshold:   75,
		MinContentLength:    3,
	}
}

func paragraphOptions() similarity.Options {
	return similarity.Options{
		ExactMatchThreshold: 100,
		FuzzyMatchThreshold: 75,
		SemanticThreshold:   65,
		MinContentLength:    30,
	}
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rkuznets/dupaudit/internal/budget"
	"github.com/rkuznets/dupaudit/internal/cache"
	"github.com/rkuznets/dupaudit/internal/model"
	"github.com/rkuznets/dupaudit/internal/similarity"
	"github.com/rkuznets/dupaudit/internal/worker"
)

// promptOverheadTokens approximates the fixed cost of instructions and
// response structure on top of the batch content itself
const promptOverheadTokens = 300

// BatchOutcome reports the result of one enrichment batch to observers
type BatchOutcome struct {
	ContentType model.ContentType
	Batch       int
	FromCache   bool
	Err         error
}

// Enricher augments rule-based duplicate groups with model-generated root
// causes and remediation advice. It is strictly best-effort: every failure
// path leaves the rule-based results standing unmodified.
type Enricher struct {
	provider    Provider
	batchSize   int
	concurrency int
	limiter     *worker.Limiter
	cache       cache.Cache
	cacheTTL    time.Duration

	// OnBatch, if set, observes every batch outcome
	OnBatch func(BatchOutcome)

	probeOnce sync.Once
	probeOK   bool
}

// EnrichStats accounts for one EnrichType call
type EnrichStats struct {
	ModelCalls     int
	TokensConsumed int // Estimated cost charged to the budget
}

// NewEnricher wires an enricher from configuration. Returns nil if no
// provider is configured; a nil *Enricher is safe to use and does nothing.
func NewEnricher(cfg *model.Config, responseCache cache.Cache) *Enricher {
	if cfg.LLM.Provider == "" {
		return nil
	}

	provider, err := NewProvider(ConfigFromModel(cfg.LLM))
	if err != nil || provider == nil {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		}
		return nil
	}

	batchSize := cfg.Enrichment.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	concurrency := cfg.Enrichment.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	return &Enricher{
		provider:    provider,
		batchSize:   batchSize,
		concurrency: concurrency,
		limiter:     worker.NewLimiter(cfg.Enrichment.RequestsPerSecond, cfg.Enrichment.Burst, cfg.Enrichment.InterBatchDelay),
		cache:       responseCache,
		cacheTTL:    cfg.Cache.TTL,
	}
}

// Enabled reports whether enrichment can run at all
func (e *Enricher) Enabled() bool {
	return e != nil && e.provider != nil
}

// available probes the provider once per run
func (e *Enricher) available(ctx context.Context) bool {
	e.probeOnce.Do(func() {
		e.probeOK = e.provider.IsAvailable(ctx)
		if !e.probeOK {
			fmt.Fprintf(os.Stderr, "Warning: %s provider unavailable, continuing with rule-based analysis\n", e.provider.Name())
		}
	})
	return e.probeOK
}

// EnrichType batches the sampled items of one content type to the
// completion service and merges the findings into duplicates. The tracker
// is charged each batch's estimated cost before the next batch is
// dispatched; once it is exhausted no further batch starts. In-flight
// batches always finish, even after cancellation.
func (e *Enricher) EnrichType(
	ctx context.Context,
	contentType model.ContentType,
	sampled []model.ContentItem,
	groups []model.ContentGroup,
	duplicates []model.DuplicateItem,
	tracker *budget.Tracker,
) ([]model.DuplicateItem, EnrichStats) {
	var stats EnrichStats

	if !e.Enabled() || len(groups) == 0 || len(sampled) == 0 || tracker.Exhausted() {
		return duplicates, stats
	}
	if !e.available(ctx) {
		return duplicates, stats
	}

	allowed := allowedURLSet(sampled)
	batches := splitBatches(sampled, e.batchSize)

	pool := worker.NewPool(e.concurrency)
	pool.Start()

	for i, batch := range batches {
		if ctx.Err() != nil {
			break // Cancelled: stop dispatching, keep what is in flight
		}
		if tracker.Exhausted() {
			break
		}

		cost := budget.EstimateItems(batch) + promptOverheadTokens
		tracker.Consume(cost)
		stats.TokensConsumed += cost

		pool.Submit(&enrichJob{
			enricher:   e,
			batchIndex: i,
			req: EnrichRequest{
				ContentType: contentType,
				Items:       batch,
				Groups:      groupsForBatch(groups, batch),
			},
		})

		if i < len(batches)-1 {
			if err := e.limiter.WaitWithDelay(ctx); err != nil {
				break
			}
		}
	}

	results := pool.Wait()

	for _, r := range results {
		res := r.(*enrichResult)
		if e.OnBatch != nil {
			e.OnBatch(BatchOutcome{
				ContentType: contentType,
				Batch:       res.batchIndex,
				FromCache:   res.fromCache,
				Err:         res.err,
			})
		}
		if res.err != nil {
			// Service or schema failure: this batch's rule-based results stand
			fmt.Fprintf(os.Stderr, "Warning: enrichment batch %d failed: %v\n", res.batchIndex, res.err)
			continue
		}
		if !res.fromCache {
			stats.ModelCalls++
		}
		duplicates = MergeEnrichment(duplicates, res.groups, allowed)
	}

	return duplicates, stats
}

// enrichJob is one batch call dispatched through the worker pool
type enrichJob struct {
	enricher   *Enricher
	batchIndex int
	req        EnrichRequest
}

// enrichResult carries one batch outcome back from the pool
type enrichResult struct {
	batchIndex int
	groups     []EnrichedGroup
	fromCache  bool
	err        error
}

func (r *enrichResult) GetError() error {
	return r.err
}

// Execute runs the batch, consulting the response cache first so repeated
// identical batches within a run cost nothing
func (j *enrichJob) Execute(ctx context.Context) worker.Result {
	e := j.enricher
	prompt := BuildEnrichPrompt(j.req)
	key := cache.Key(prompt)

	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			var groups []EnrichedGroup
			if err := json.Unmarshal(data, &groups); err == nil {
				return &enrichResult{batchIndex: j.batchIndex, groups: groups, fromCache: true}
			}
		}
	}

	resp, err := e.provider.Enrich(ctx, j.req)
	if err != nil {
		return &enrichResult{batchIndex: j.batchIndex, err: err}
	}

	if e.cache != nil {
		if data, err := json.Marshal(resp.Groups); err == nil {
			_ = e.cache.Set(key, data, e.cacheTTL)
		}
	}

	return &enrichResult{batchIndex: j.batchIndex, groups: resp.Groups}
}

// MergeEnrichment folds validated model findings into the rule-based
// duplicates, keyed by normalized content. Merging is commutative and
// idempotent: applying the same enrichment twice is a no-op. A finding
// whose key matches no existing duplicate is appended as a new group, but
// only when it names at least two allowed URLs.
func MergeEnrichment(duplicates []model.DuplicateItem, enriched []EnrichedGroup, allowed map[string]bool) []model.DuplicateItem {
	index := make(map[string]int, len(duplicates))
	for i, d := range duplicates {
		index[similarity.NormalizeContentKey(d.Content)] = i
	}

	for _, g := range enriched {
		key := similarity.NormalizeContentKey(g.Content)
		if key == "" {
			continue
		}

		if i, ok := index[key]; ok {
			d := &duplicates[i]
			if g.RootCause != "" {
				d.RootCause = g.RootCause
			}
			if g.ImprovementStrategy != "" {
				d.ImprovementStrategy = g.ImprovementStrategy
			}
			if g.Priority >= 1 && g.Priority <= 5 {
				d.Priority = g.Priority
			}
			if model.ValidImpactLevel(g.ImpactLevel) {
				d.ImpactLevel = model.ImpactLevel(g.ImpactLevel)
			}
			if g.SimilarityScore > 0 {
				d.SimilarityScore = g.SimilarityScore
			}
			continue
		}

		urls := filterAllowedURLs(g.URLs, allowed)
		if len(urls) < 2 {
			continue
		}

		item := model.DuplicateItem{
			Content:             g.Content,
			URLs:                urls,
			SimilarityScore:     g.SimilarityScore,
			ImpactLevel:         model.ImpactFromURLCount(len(urls)),
			RootCause:           g.RootCause,
			ImprovementStrategy: g.ImprovementStrategy,
		}
		if g.Priority >= 1 && g.Priority <= 5 {
			item.Priority = g.Priority
		}
		if model.ValidImpactLevel(g.ImpactLevel) {
			item.ImpactLevel = model.ImpactLevel(g.ImpactLevel)
		}

		index[key] = len(duplicates)
		duplicates = append(duplicates, item)
	}

	return duplicates
}

// splitBatches cuts items into consecutive slices of at most size
func splitBatches(items []model.ContentItem, size int) [][]model.ContentItem {
	var batches [][]model.ContentItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// groupsForBatch returns the rule-based groups with at least one member in
// the batch, so the prompt only describes relevant findings
func groupsForBatch(groups []model.ContentGroup, batch []model.ContentItem) []model.ContentGroup {
	inBatch := allowedURLSet(batch)

	var out []model.ContentGroup
	for _, g := range groups {
		for _, item := range g.Items {
			if inBatch[similarity.NormalizeURL(item.URL)] {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

// allowedURLSet builds the normalized-URL allowlist for a batch
func allowedURLSet(items []model.ContentItem) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if key := similarity.NormalizeURL(item.URL); key != "" {
			set[key] = true
		}
	}
	return set
}

// filterAllowedURLs keeps URLs inside the allowlist, deduplicated by
// normalized form
func filterAllowedURLs(urls []string, allowed map[string]bool) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		key := similarity.NormalizeURL(u)
		if key == "" || !allowed[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}

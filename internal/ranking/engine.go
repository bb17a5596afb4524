package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/paper-digest/internal/domain"
	"github.com/helixir/paper-digest/internal/observability"
	"github.com/helixir/paper-digest/internal/sources"
	"github.com/helixir/paper-digest/internal/sources/arxiv"
)

// Enricher augments records in place with citation counts.
type Enricher interface {
	EnrichAll(ctx context.Context, records []domain.PaperRecord)
}

// Engine merges candidates from every source, filters, enriches, detects
// venues, scores and ranks them. A single Engine serves many runs; it holds
// no per-run state.
type Engine struct {
	trending sources.TrendingSource
	search   sources.SearchSource
	enricher Enricher
	metrics  *observability.Metrics
	logger   zerolog.Logger

	// now is the clock used for recency scoring and category rotation.
	// Overridable in tests.
	now func() time.Time
}

// NewEngine creates a ranking engine over the given sources and enricher.
// metrics may be nil.
func NewEngine(trending sources.TrendingSource, search sources.SearchSource, enricher Enricher, metrics *observability.Metrics, logger zerolog.Logger) *Engine {
	return &Engine{
		trending: trending,
		search:   search,
		enricher: enricher,
		metrics:  metrics,
		logger:   logger.With().Str("component", "ranking").Logger(),
		now:      time.Now,
	}
}

// Rank produces the top-limit records for this cycle.
//
// Both sources are always queried: the trending feed for community-validated
// papers and the category search for pure supplementation, even without a
// topic. A source failure degrades to an empty contribution. The merged set
// is topic-filtered, the first 20 survivors are enriched, venues are
// detected, and everything is scored and stable-sorted descending so equal
// scores keep their merged input order (which reflects upstream curation and
// recency).
//
// If the pipeline yields nothing, Rank falls back to the raw trending feed,
// unscored. Only when that is also empty does it fail, with
// domain.ErrNoPapers.
func (e *Engine) Rank(ctx context.Context, topic string, limit int) ([]domain.PaperRecord, error) {
	now := e.now()
	category := arxiv.DailyCategory(now)

	trending, err := e.trending.FetchTrending(ctx, limit)
	if err != nil {
		srcLogger := observability.WithSourceContext(e.logger, e.trending.Name())
		srcLogger.Warn().Err(err).Msg("trending fetch failed")
		trending = nil
	}

	searched, err := e.search.Search(ctx, topic, limit, category)
	if err != nil {
		srcLogger := observability.WithSourceContext(e.logger, e.search.Name())
		srcLogger.Warn().Err(err).Str("category", category).Msg("search failed")
		searched = nil
	}

	if e.metrics != nil {
		e.metrics.PapersFetched.WithLabelValues(e.trending.Name()).Add(float64(len(trending)))
		e.metrics.PapersFetched.WithLabelValues(e.search.Name()).Add(float64(len(searched)))
	}

	e.logger.Info().
		Int("trending", len(trending)).
		Int("searched", len(searched)).
		Str("category", category).
		Msg("merged candidate set")

	merged := make([]domain.PaperRecord, 0, len(trending)+len(searched))
	merged = append(merged, trending...)
	merged = append(merged, searched...)

	candidates := FilterByTopic(merged, topic)

	e.enricher.EnrichAll(ctx, candidates)

	venues := domain.Venues()
	for i := range candidates {
		venues.Detect(&candidates[i])
	}

	for i := range candidates {
		candidates[i].ImpactScore = Score(&candidates[i], topic, now)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ImpactScore > candidates[j].ImpactScore
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	if len(candidates) > 0 {
		return candidates, nil
	}

	// Quality guarantees are dropped here so the run never ends with
	// nothing to summarize.
	e.logger.Warn().Msg("ranking produced no results, falling back to raw trending feed")
	fallback, err := e.trending.FetchTrending(ctx, limit)
	if err != nil {
		e.logger.Warn().Err(err).Msg("fallback trending fetch failed")
		fallback = nil
	}
	if len(fallback) == 0 {
		return nil, domain.ErrNoPapers
	}
	return fallback, nil
}

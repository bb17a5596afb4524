package sources

import (
	"context"

	"github.com/helixir/paper-digest/internal/domain"
)

// TrendingSource fetches papers from a curated, pre-ranked feed.
//
// Implementations must:
//   - Preserve the feed's own ordering (no local re-sorting)
//   - Substitute safe defaults for missing fields
//   - Respect context cancellation
type TrendingSource interface {
	// FetchTrending returns at most limit papers in feed order.
	FetchTrending(ctx context.Context, limit int) ([]domain.PaperRecord, error)

	// Name returns a human-readable name for this source, used for logging
	// and provenance tags.
	Name() string
}

// SearchSource fetches papers from a query-driven academic index.
type SearchSource interface {
	// Search returns at most limit papers matching an optional free-text
	// topic combined with a subject category, newest first.
	Search(ctx context.Context, topic string, limit int, category string) ([]domain.PaperRecord, error)

	// Name returns a human-readable name for this source.
	Name() string
}

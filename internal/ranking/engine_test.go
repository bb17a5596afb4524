package ranking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/paper-digest/internal/domain"
)

type fakeTrending struct {
	papers []domain.PaperRecord
	err    error
	calls  int
}

func (f *fakeTrending) FetchTrending(ctx context.Context, limit int) ([]domain.PaperRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	papers := f.papers
	if limit > 0 && len(papers) > limit {
		papers = papers[:limit]
	}
	return append([]domain.PaperRecord(nil), papers...), nil
}

func (f *fakeTrending) Name() string { return "fake-trending" }

type fakeSearch struct {
	papers       []domain.PaperRecord
	err          error
	lastCategory string
}

func (f *fakeSearch) Search(ctx context.Context, topic string, limit int, category string) ([]domain.PaperRecord, error) {
	f.lastCategory = category
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.PaperRecord(nil), f.papers...), nil
}

func (f *fakeSearch) Name() string { return "fake-search" }

type fakeEnricher struct {
	counts map[string]int
}

func (f *fakeEnricher) EnrichAll(ctx context.Context, records []domain.PaperRecord) {
	for i := range records {
		records[i].Citations = f.counts[records[i].ArxivID]
	}
}

func newTestEngine(trending *fakeTrending, search *fakeSearch, enricher *fakeEnricher) *Engine {
	if enricher == nil {
		enricher = &fakeEnricher{}
	}
	e := NewEngine(trending, search, enricher, nil, zerolog.Nop())
	e.now = func() time.Time { return time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC) }
	return e
}

func TestEngine_Rank(t *testing.T) {
	t.Run("merges both sources and sorts by score", func(t *testing.T) {
		trending := &fakeTrending{papers: []domain.PaperRecord{
			{Title: "Low signal", ArxivID: "1", Upvotes: 1},
			{Title: "High signal", ArxivID: "2", Upvotes: 50},
		}}
		search := &fakeSearch{papers: []domain.PaperRecord{
			{Title: "Mid signal", ArxivID: "3", Upvotes: 10},
		}}

		papers, err := newTestEngine(trending, search, nil).Rank(context.Background(), "", 10)

		require.NoError(t, err)
		require.Len(t, papers, 3)
		assert.Equal(t, "High signal", papers[0].Title)
		assert.Equal(t, "Mid signal", papers[1].Title)
		assert.Equal(t, "Low signal", papers[2].Title)
	})

	t.Run("equal scores keep merged input order", func(t *testing.T) {
		trending := &fakeTrending{papers: []domain.PaperRecord{
			{Title: "First", ArxivID: "1"},
			{Title: "Second", ArxivID: "2"},
		}}
		search := &fakeSearch{papers: []domain.PaperRecord{
			{Title: "Third", ArxivID: "3"},
		}}

		papers, err := newTestEngine(trending, search, nil).Rank(context.Background(), "", 10)

		require.NoError(t, err)
		assert.Equal(t, "First", papers[0].Title)
		assert.Equal(t, "Second", papers[1].Title)
		assert.Equal(t, "Third", papers[2].Title)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		trending := &fakeTrending{papers: []domain.PaperRecord{
			{Title: "A", ArxivID: "1", Upvotes: 3},
			{Title: "B", ArxivID: "2", Upvotes: 2},
			{Title: "C", ArxivID: "3", Upvotes: 1},
		}}

		papers, err := newTestEngine(trending, &fakeSearch{}, nil).Rank(context.Background(), "", 2)

		require.NoError(t, err)
		assert.Len(t, papers, 2)
		assert.Equal(t, "A", papers[0].Title)
	})

	t.Run("enrichment counts feed the score", func(t *testing.T) {
		trending := &fakeTrending{papers: []domain.PaperRecord{
			{Title: "Uncited", ArxivID: "1", Upvotes: 5},
			{Title: "Heavily cited", ArxivID: "2"},
		}}
		enricher := &fakeEnricher{counts: map[string]int{"2": 100}}

		papers, err := newTestEngine(trending, &fakeSearch{}, enricher).Rank(context.Background(), "", 10)

		require.NoError(t, err)
		assert.Equal(t, "Heavily cited", papers[0].Title)
		assert.Equal(t, float64(500), papers[0].ImpactScore)
	})

	t.Run("topic filters the merged set", func(t *testing.T) {
		trending := &fakeTrending{papers: []domain.PaperRecord{
			{Title: "Agentic planning", ArxivID: "1"},
			{Title: "Diffusion models", ArxivID: "2"},
		}}

		papers, err := newTestEngine(trending, &fakeSearch{}, nil).Rank(context.Background(), "agentic", 10)

		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, "Agentic planning", papers[0].Title)
	})

	t.Run("search category follows the daily rotation", func(t *testing.T) {
		trending := &fakeTrending{papers: []domain.PaperRecord{{Title: "A", ArxivID: "1"}}}
		search := &fakeSearch{}

		_, err := newTestEngine(trending, search, nil).Rank(context.Background(), "", 10)

		require.NoError(t, err)
		assert.NotEmpty(t, search.lastCategory)
	})

	t.Run("source failure degrades to the other source", func(t *testing.T) {
		trending := &fakeTrending{err: errors.New("feed down")}
		search := &fakeSearch{papers: []domain.PaperRecord{{Title: "Survivor", ArxivID: "1"}}}

		papers, err := newTestEngine(trending, search, nil).Rank(context.Background(), "", 10)

		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, "Survivor", papers[0].Title)
	})

	t.Run("empty filtered set falls back to raw trending", func(t *testing.T) {
		trending := &fakeTrending{papers: []domain.PaperRecord{
			{Title: "Diffusion models", ArxivID: "1"},
		}}

		papers, err := newTestEngine(trending, &fakeSearch{}, nil).Rank(context.Background(), "nonexistent-topic", 10)

		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, "Diffusion models", papers[0].Title)
		assert.Zero(t, papers[0].ImpactScore, "fallback papers are unscored")
		assert.Equal(t, 2, trending.calls, "fallback re-fetches the feed")
	})

	t.Run("total failure returns ErrNoPapers", func(t *testing.T) {
		trending := &fakeTrending{err: errors.New("feed down")}
		search := &fakeSearch{err: errors.New("search down")}

		papers, err := newTestEngine(trending, search, nil).Rank(context.Background(), "", 10)

		assert.Nil(t, papers)
		assert.ErrorIs(t, err, domain.ErrNoPapers)
	})
}

package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/paper-digest/internal/domain"
	"github.com/helixir/paper-digest/internal/sources"
)

// Compile-time check that Client implements sources.TrendingSource.
var _ sources.TrendingSource = (*Client)(nil)

func newTestClient(serverURL string) *Client {
	return NewWithHTTPClient(Config{BaseURL: serverURL}, sources.NewHTTPClient(sources.HTTPClientConfig{
		RateLimit: 100,
		BurstSize: 50,
	}))
}

func TestNew(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		client := New(Config{})

		require.NotNil(t, client)
		assert.Equal(t, DefaultBaseURL, client.config.BaseURL)
		assert.Equal(t, DefaultTimeout, client.config.Timeout)
		assert.Equal(t, DefaultRateLimit, client.config.RateLimit)
		assert.Equal(t, DefaultBurstSize, client.config.BurstSize)
	})

	t.Run("keeps custom config", func(t *testing.T) {
		cfg := Config{
			BaseURL:   "https://custom.example.com/api",
			Timeout:   30 * time.Second,
			RateLimit: 10,
			BurstSize: 5,
		}
		client := New(cfg)

		assert.Equal(t, cfg.BaseURL, client.config.BaseURL)
		assert.Equal(t, cfg.Timeout, client.config.Timeout)
	})

	t.Run("reports source name", func(t *testing.T) {
		assert.Equal(t, "Hugging Face Daily", New(Config{}).Name())
	})
}

func TestClient_FetchTrending(t *testing.T) {
	feedJSON := `[
		{
			"paper": {
				"id": "2501.00001",
				"title": "Scaling Laws Revisited",
				"summary": "We revisit scaling laws for language models.",
				"authors": [{"name": "Ada Lovelace"}, {"name": "Alan Turing"}]
			},
			"publishedAt": "2025-01-02T00:00:00Z",
			"upvotes": 42
		},
		{
			"paper": {
				"id": "2501.00002",
				"title": "",
				"summary": "",
				"authors": []
			},
			"publishedAt": "",
			"upvotes": 3
		},
		{
			"paper": {
				"id": "2501.00003",
				"title": "Third Paper",
				"summary": "Abstract three.",
				"authors": [{"name": "Grace Hopper"}]
			},
			"publishedAt": "2025-01-01T00:00:00Z",
			"upvotes": 7
		}
	]`

	t.Run("maps feed entries to records", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/daily_papers", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(feedJSON))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).FetchTrending(context.Background(), 10)

		require.NoError(t, err)
		require.Len(t, papers, 3)

		first := papers[0]
		assert.Equal(t, "Scaling Laws Revisited", first.Title)
		assert.Equal(t, "Ada Lovelace, Alan Turing", first.Authors)
		assert.Equal(t, "2501.00001", first.ArxivID)
		assert.Equal(t, "https://arxiv.org/pdf/2501.00001.pdf", first.PDFURL)
		assert.Equal(t, 42, first.Upvotes)
		assert.Equal(t, "Hugging Face Daily", first.Source)
	})

	t.Run("substitutes defaults for missing fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(feedJSON))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).FetchTrending(context.Background(), 10)

		require.NoError(t, err)
		sparse := papers[1]
		assert.Equal(t, "Untitled", sparse.Title)
		assert.Equal(t, "No abstract available", sparse.Abstract)
		assert.Empty(t, sparse.Authors)
		assert.NotEmpty(t, sparse.PublishedAt, "missing timestamp falls back to now")
	})

	t.Run("truncates to limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(feedJSON))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).FetchTrending(context.Background(), 2)

		require.NoError(t, err)
		assert.Len(t, papers, 2)
	})

	t.Run("error status returns external API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).FetchTrending(context.Background(), 5)

		require.Error(t, err)
		assert.Nil(t, papers)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("malformed JSON returns error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchTrending(context.Background(), 5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})

	t.Run("empty feed returns empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("[]"))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).FetchTrending(context.Background(), 5)

		require.NoError(t, err)
		assert.Empty(t, papers)
	})
}

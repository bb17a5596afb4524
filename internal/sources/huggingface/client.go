package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helixir/paper-digest/internal/domain"
	"github.com/helixir/paper-digest/internal/sources"
)

const (
	// DefaultBaseURL is the default Hugging Face API base URL.
	DefaultBaseURL = "https://huggingface.co/api"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit in requests per second.
	DefaultRateLimit = 2.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 2

	// sourceName is the human-readable name for this source.
	sourceName = "Hugging Face Daily"
)

// Config holds configuration for the Hugging Face client.
type Config struct {
	// BaseURL is the API base URL.
	BaseURL string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
}

// Client implements the sources.TrendingSource interface for the Hugging
// Face daily papers feed.
type Client struct {
	config     Config
	httpClient *sources.HTTPClient
}

// Ensure Client implements TrendingSource.
var _ sources.TrendingSource = (*Client)(nil)

// New creates a new Hugging Face client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	return &Client{
		config: cfg,
		httpClient: sources.NewHTTPClient(sources.HTTPClientConfig{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			BurstSize: cfg.BurstSize,
		}),
	}
}

// NewWithHTTPClient creates a new client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *sources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// FetchTrending returns the first limit entries of the daily papers feed in
// API order. The feed is pre-ranked by the community; no local re-sorting is
// applied.
func (c *Client) FetchTrending(ctx context.Context, limit int) ([]domain.PaperRecord, error) {
	feedURL := strings.TrimRight(c.config.BaseURL, "/") + "/daily_papers"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body))
	}

	// Limit body to 10MB.
	var entries []FeedEntry
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	papers := make([]domain.PaperRecord, 0, len(entries))
	for i := range entries {
		papers = append(papers, entryToRecord(&entries[i]))
	}

	return papers, nil
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// entryToRecord converts a feed entry to a domain record, substituting safe
// defaults for missing fields.
func entryToRecord(entry *FeedEntry) domain.PaperRecord {
	title := strings.TrimSpace(entry.Paper.Title)
	if title == "" {
		title = "Untitled"
	}

	abstract := strings.TrimSpace(entry.Paper.Summary)
	if abstract == "" {
		abstract = "No abstract available"
	}

	names := make([]string, 0, len(entry.Paper.Authors))
	for _, a := range entry.Paper.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}

	publishedAt := entry.PublishedAt
	if publishedAt == "" {
		publishedAt = time.Now().Format(time.RFC3339)
	}

	return domain.PaperRecord{
		Title:       title,
		Authors:     strings.Join(names, ", "),
		Abstract:    abstract,
		ArxivID:     entry.Paper.ID,
		PDFURL:      fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", entry.Paper.ID),
		PublishedAt: publishedAt,
		Upvotes:     entry.Upvotes,
		Source:      sourceName,
	}
}

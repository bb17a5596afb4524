// Package arxiv provides a client for the arXiv Atom search API.
//
// API Documentation: https://info.arxiv.org/help/api/
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/helixir/paper-digest/internal/domain"
	"github.com/helixir/paper-digest/internal/sources"
)

const (
	// DefaultBaseURL is the default arXiv API base URL.
	DefaultBaseURL = "https://export.arxiv.org/api"

	// DefaultRateLimit is the default rate limit (arXiv asks for no more
	// than one request every three seconds).
	DefaultRateLimit = 0.33

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 1

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// sourceName is the human-readable name for this source.
	sourceName = "arXiv"
)

// arxivIDRegex extracts the arXiv ID from the full entry URL.
// Matches patterns like "http://arxiv.org/abs/2301.12345v1".
var arxivIDRegex = regexp.MustCompile(`arxiv\.org/abs/(.+)$`)

// Config holds configuration for the arXiv client.
type Config struct {
	// BaseURL is the arXiv API base URL.
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

// Client implements the sources.SearchSource interface for arXiv.
type Client struct {
	config     Config
	httpClient *sources.HTTPClient
}

// Ensure Client implements SearchSource.
var _ sources.SearchSource = (*Client)(nil)

// New creates a new arXiv client with the given configuration.
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

// NewWithHTTPClient creates a new arXiv client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *sources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries arXiv for recent papers in the given category, optionally
// narrowed by a free-text topic. It requests twice the limit (newest first),
// tags detected venues on each mapped record, and returns at most limit.
func (c *Client) Search(ctx context.Context, topic string, limit int, category string) ([]domain.PaperRecord, error) {
	searchURL, err := c.buildSearchURL(topic, limit, category)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
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

	// Parse the Atom XML response (limit body to 10MB).
	var feed Feed
	if err := xml.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	venues := domain.Venues()
	papers := make([]domain.PaperRecord, 0, len(feed.Entries))
	for i := range feed.Entries {
		rec := entryToRecord(&feed.Entries[i])
		venues.Detect(&rec)
		papers = append(papers, rec)
		if limit > 0 && len(papers) >= limit {
			break
		}
	}

	return papers, nil
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// buildSearchURL constructs the arXiv search API URL. The query combines an
// optional quoted topic with the subject category; results are sorted by
// submission date descending and capped at twice the limit so local venue
// tagging and truncation have headroom.
func (c *Client) buildSearchURL(topic string, limit int, category string) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/query"

	searchQuery := "cat:" + category
	if topic = strings.TrimSpace(topic); topic != "" {
		searchQuery = fmt.Sprintf("all:%q AND cat:%s", topic, category)
	}

	query := url.Values{}
	query.Set("search_query", searchQuery)
	query.Set("max_results", strconv.Itoa(limit*2))
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")

	baseURL.RawQuery = query.Encode()
	return baseURL.String(), nil
}

// entryToRecord converts an arXiv Atom entry to a domain record.
func entryToRecord(entry *Entry) domain.PaperRecord {
	arxivID := extractArxivID(entry.ID)

	names := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}

	// arXiv wraps titles and abstracts with whitespace and newlines.
	title := normalizeWhitespace(entry.Title)
	if title == "" {
		title = "Untitled"
	}
	abstract := normalizeWhitespace(entry.Summary)
	if abstract == "" {
		abstract = "No abstract available"
	}

	pdfURL := ""
	for _, link := range entry.Links {
		if link.Title == "pdf" || link.Type == "application/pdf" {
			pdfURL = link.Href
			break
		}
	}
	if pdfURL == "" && arxivID != "" {
		pdfURL = "https://arxiv.org/pdf/" + arxivID
	}

	return domain.PaperRecord{
		Title:       title,
		Authors:     strings.Join(names, ", "),
		Abstract:    abstract,
		ArxivID:     arxivID,
		PDFURL:      pdfURL,
		PublishedAt: entry.Published,
		Source:      sourceName,
	}
}

// extractArxivID extracts the arXiv ID from the full entry URL.
// Input: "http://arxiv.org/abs/2301.12345v1" → "2301.12345v1"
func extractArxivID(entryURL string) string {
	matches := arxivIDRegex.FindStringSubmatch(entryURL)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

// normalizeWhitespace trims and collapses multiple whitespace characters.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

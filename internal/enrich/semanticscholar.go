// Package enrich augments paper records with citation metadata from the
// Semantic Scholar Graph API.
//
// Enrichment is strictly best-effort: every transport failure, error status
// or timeout degrades to zero counts instead of surfacing an error, so a
// flaky metadata service can never drop a paper from the digest.
//
// API Documentation: https://api.semanticscholar.org/api-docs/
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/paper-digest/internal/domain"
	"github.com/helixir/paper-digest/internal/observability"
	"github.com/helixir/paper-digest/internal/sources"
)

const (
	// DefaultBaseURL is the default base URL for the Semantic Scholar Graph API.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxLookups caps how many records of a candidate set are
	// enriched, bounding external call volume per run.
	DefaultMaxLookups = 20

	// DefaultLookupDelay is the fixed minimum delay between consecutive
	// lookups.
	DefaultLookupDelay = 100 * time.Millisecond

	// apiKeyHeader is the header name for the Semantic Scholar API key.
	apiKeyHeader = "x-api-key"

	// citationFields is the field list requested from the API.
	citationFields = "citationCount,influentialCitationCount"

	// sourceName is the human-readable name for this service.
	sourceName = "Semantic Scholar"
)

// CitationCounts holds the citation metadata for a single paper.
type CitationCounts struct {
	// Citations is the total citation count.
	Citations int `json:"citationCount"`

	// InfluentialCitations is the influential citation count.
	InfluentialCitations int `json:"influentialCitationCount"`
}

// Config contains configuration options for the enricher.
type Config struct {
	// BaseURL is the base URL for the API.
	BaseURL string

	// APIKey is the optional API key for authenticated requests.
	APIKey string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// MaxLookups caps enrichment to the first N records of a set.
	MaxLookups int

	// LookupDelay is the fixed minimum delay between lookups.
	LookupDelay time.Duration
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxLookups == 0 {
		c.MaxLookups = DefaultMaxLookups
	}
	if c.LookupDelay == 0 {
		c.LookupDelay = DefaultLookupDelay
	}
}

// Enricher looks up citation counts for paper identifiers.
type Enricher struct {
	config     Config
	httpClient *sources.HTTPClient
	throttle   *sources.RateLimiter
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// New creates a new Enricher with the given configuration. metrics may be
// nil.
func New(cfg Config, metrics *observability.Metrics, logger zerolog.Logger) *Enricher {
	cfg.applyDefaults()

	return &Enricher{
		config: cfg,
		httpClient: sources.NewHTTPClient(sources.HTTPClientConfig{
			Timeout:      cfg.Timeout,
			RateLimit:    10,
			BurstSize:    10,
			APIKey:       cfg.APIKey,
			APIKeyHeader: apiKeyHeader,
		}),
		throttle: sources.NewFixedDelayLimiter(cfg.LookupDelay),
		metrics:  metrics,
		logger:   logger.With().Str("component", "enricher").Logger(),
	}
}

// NewWithHTTPClient creates a new Enricher with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *sources.HTTPClient, logger zerolog.Logger) *Enricher {
	cfg.applyDefaults()

	return &Enricher{
		config:     cfg,
		httpClient: httpClient,
		throttle:   sources.NewFixedDelayLimiter(cfg.LookupDelay),
		logger:     logger.With().Str("component", "enricher").Logger(),
	}
}

// Enrich looks up citation counts for a single identifier. The identifier is
// normalized first (version suffix and namespace prefix stripped). Any
// failure returns zero counts and no error.
func (e *Enricher) Enrich(ctx context.Context, arxivID string) CitationCounts {
	id := domain.NormalizeArxivID(arxivID)
	if id == "" {
		return CitationCounts{}
	}

	counts, err := e.lookup(ctx, id)
	if err != nil {
		if e.metrics != nil {
			e.metrics.EnrichmentFailures.Inc()
		}
		e.logger.Warn().Err(err).Str("arxiv_id", id).Msg("citation lookup failed, using zero counts")
		return CitationCounts{}
	}
	return counts
}

// EnrichAll enriches at most the first MaxLookups records in place, spacing
// lookups by the configured fixed delay. Records beyond the cap keep their
// zero counts.
func (e *Enricher) EnrichAll(ctx context.Context, records []domain.PaperRecord) {
	n := len(records)
	if n > e.config.MaxLookups {
		n = e.config.MaxLookups
	}

	for i := 0; i < n; i++ {
		if err := e.throttle.Wait(ctx); err != nil {
			e.logger.Warn().Err(err).Msg("enrichment throttle interrupted")
			return
		}

		counts := e.Enrich(ctx, records[i].ArxivID)
		records[i].Citations = counts.Citations
		records[i].InfluentialCitations = counts.InfluentialCitations
	}
}

// lookup performs the actual API call for a normalized identifier.
func (e *Enricher) lookup(ctx context.Context, id string) (CitationCounts, error) {
	lookupURL := fmt.Sprintf("%s/paper/arXiv:%s?fields=%s",
		e.config.BaseURL, url.PathEscape(id), citationFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return CitationCounts{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return CitationCounts{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return CitationCounts{}, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body))
	}

	var counts CitationCounts
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&counts); err != nil {
		return CitationCounts{}, fmt.Errorf("decoding response: %w", err)
	}

	return counts, nil
}

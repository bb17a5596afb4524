package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Default values for the Gemini provider.
const (
	defaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel      = "gemini-2.5-flash"
	defaultGeminiRetryDelay = 2 * time.Second
)

// generateRequest represents the Gemini generateContent API request body.
type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiContent is a single content block in the request or response.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

// geminiPart is a single text part.
type geminiPart struct {
	Text string `json:"text"`
}

// generateResponse represents the Gemini generateContent API response body.
type generateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// geminiCandidate is a single completion candidate.
type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// geminiErrorResponse represents an error response from the Gemini API.
type geminiErrorResponse struct {
	Error geminiErrorDetail `json:"error"`
}

// geminiErrorDetail contains error details from the Gemini API.
type geminiErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GeminiProvider implements Summarizer using the Gemini generateContent API.
type GeminiProvider struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	retryDelay time.Duration
}

// GeminiConfig holds the parameters needed to create a Gemini provider.
type GeminiConfig struct {
	// APIKey is the Gemini API key.
	APIKey string
	// Model is the model identifier (e.g., "gemini-2.5-flash").
	Model string
	// BaseURL is the API base URL (empty means default).
	BaseURL string
}

// NewGeminiProvider creates a new Gemini summarization provider.
// Transient errors (5xx, 429) are retried up to maxRetries times.
func NewGeminiProvider(cfg GeminiConfig, timeout time.Duration, maxRetries int) *GeminiProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	if maxRetries < 0 {
		maxRetries = 0
	}

	return &GeminiProvider{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		retryDelay: defaultGeminiRetryDelay,
	}
}

// Summarize generates a summary of the paper using the Gemini API.
func (p *GeminiProvider) Summarize(ctx context.Context, title, abstract string) (string, error) {
	genReq := generateRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: BuildSummaryPrompt(title, abstract)}}},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			delay := p.retryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("gemini: context cancelled during retry wait: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		summary, err := p.doRequest(ctx, genReq)
		if err == nil {
			return summary, nil
		}

		if !isTransientError(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("gemini: exhausted %d retries: %w", p.maxRetries, lastErr)
}

// Provider returns the name of the LLM provider.
func (p *GeminiProvider) Provider() string {
	return "gemini"
}

// doRequest performs a single API request to the generateContent endpoint.
func (p *GeminiProvider) doRequest(ctx context.Context, genReq generateRequest) (string, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseGeminiAPIError(resp.StatusCode, respBody)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("gemini: failed to unmarshal response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty candidates in response")
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// parseGeminiAPIError parses a Gemini API error from the response body.
func parseGeminiAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Provider:   "gemini",
		StatusCode: statusCode,
		Message:    string(body),
	}

	var errResp geminiErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		apiErr.Message = errResp.Error.Message
	}

	return apiErr
}

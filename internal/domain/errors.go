package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrNoPapers indicates that every source came back empty, including the
	// trending-feed fallback. This is the only fatal condition in a run.
	ErrNoPapers = errors.New("no papers available from any source")

	// ErrSourceUnavailable indicates that an external source could not be
	// reached or returned an unusable response.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSummaryFailed indicates that the summarization call failed.
	ErrSummaryFailed = errors.New("summary generation failed")

	// ErrInvalidConfig indicates that the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExternalAPIError captures a non-2xx response from an external service.
type ExternalAPIError struct {
	Source     string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Source, e.StatusCode, truncate(e.Body, 200))
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ExternalAPIError) Unwrap() error {
	return ErrSourceUnavailable
}

// NewExternalAPIError creates an ExternalAPIError for the given source.
func NewExternalAPIError(source string, statusCode int, body string) *ExternalAPIError {
	return &ExternalAPIError{Source: source, StatusCode: statusCode, Body: body}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

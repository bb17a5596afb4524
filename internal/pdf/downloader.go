// Package pdf downloads paper PDFs and writes the dated digest archive.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sentinel errors for PDF download operations.
var (
	// ErrTooLarge is returned when the file exceeds the maximum allowed size.
	ErrTooLarge = errors.New("pdf: file exceeds maximum size")
	// ErrDownloadFailed is returned when the download fails due to network or HTTP errors.
	ErrDownloadFailed = errors.New("pdf: download failed")
)

// Config holds downloader configuration.
type Config struct {
	// Timeout is the HTTP request timeout. Default: 30 seconds.
	Timeout time.Duration
	// MaxSize is the maximum file size in bytes. Default: 50MB.
	MaxSize int64
	// UserAgent is the User-Agent header.
	UserAgent string
}

// Downloader downloads PDFs from URLs. A single best-effort attempt per
// file; failures are reported to the caller, which logs and moves on.
type Downloader struct {
	client    *http.Client
	maxSize   int64
	userAgent string
}

// NewDownloader creates a new Downloader with the given configuration.
func NewDownloader(cfg Config) *Downloader {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 50 * 1024 * 1024
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Helixir-PaperDigest/1.0"
	}

	return &Downloader{
		client:    &http.Client{Timeout: cfg.Timeout},
		maxSize:   cfg.MaxSize,
		userAgent: cfg.UserAgent,
	}
}

// Download fetches a PDF from the given URL.
// Returns ErrTooLarge if the response exceeds MaxSize and ErrDownloadFailed
// wrapped with the HTTP status for non-2xx responses.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL: %w", ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/pdf, */*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrDownloadFailed, resp.StatusCode)
	}

	// Read one byte past the cap to distinguish at-limit from over-limit.
	content, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrDownloadFailed, err)
	}
	if int64(len(content)) > d.maxSize {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, d.maxSize)
	}

	return content, nil
}

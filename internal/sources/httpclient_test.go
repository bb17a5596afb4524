package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c := NewHTTPClient(HTTPClientConfig{})

		assert.Equal(t, 10*time.Second, c.config.Timeout)
		assert.Equal(t, 5.0, c.config.RateLimit)
		assert.Equal(t, 5, c.config.BurstSize)
		assert.Equal(t, "Helixir-PaperDigest/1.0", c.config.UserAgent)
	})

	t.Run("keeps custom config", func(t *testing.T) {
		c := NewHTTPClient(HTTPClientConfig{
			Timeout:   time.Second,
			RateLimit: 50,
			BurstSize: 10,
			UserAgent: "custom/1.0",
		})

		assert.Equal(t, time.Second, c.config.Timeout)
		assert.Equal(t, "custom/1.0", c.config.UserAgent)
	})
}

func TestHTTPClient_Do(t *testing.T) {
	t.Run("sets default headers", func(t *testing.T) {
		var gotUA, gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotKey = r.Header.Get("x-api-key")
		}))
		defer server.Close()

		c := NewHTTPClient(HTTPClientConfig{
			RateLimit:    100,
			BurstSize:    10,
			APIKey:       "secret",
			APIKeyHeader: "x-api-key",
		})

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "Helixir-PaperDigest/1.0", gotUA)
		assert.Equal(t, "secret", gotKey)
	})

	t.Run("preserves caller user agent", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		c := NewHTTPClient(HTTPClientConfig{RateLimit: 100, BurstSize: 10})

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "caller/2.0")
		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "caller/2.0", gotUA)
	})

	t.Run("cancelled context aborts rate limiter wait", func(t *testing.T) {
		c := NewHTTPClient(HTTPClientConfig{RateLimit: 0.001, BurstSize: 1})

		// Drain the single burst token.
		ctx := context.Background()
		require.NoError(t, c.rateLimiter.Wait(ctx))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		req, err := http.NewRequestWithContext(cancelled, http.MethodGet, "http://example.com", nil)
		require.NoError(t, err)
		_, err = c.Do(req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limiter wait")
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows within burst", func(t *testing.T) {
		rl := NewRateLimiter(10, 2)

		assert.True(t, rl.Allow())
		assert.True(t, rl.Allow())
		assert.False(t, rl.Allow())
	})

	t.Run("fixed delay limiter spaces calls", func(t *testing.T) {
		rl := NewFixedDelayLimiter(10 * time.Millisecond)

		start := time.Now()
		require.NoError(t, rl.Wait(context.Background()))
		require.NoError(t, rl.Wait(context.Background()))
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	})
}

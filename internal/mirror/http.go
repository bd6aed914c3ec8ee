package mirror

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"golang.org/x/time/rate"
)

// HTTPClient sends requests with retries and a request rate limit.
type HTTPClient struct {
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay []time.Duration
}

// HTTPOptions configures an HTTPClient.
type HTTPOptions struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryDelays       []time.Duration
	RequestsPerSecond float64
}

// NewHTTPClient creates an HTTP client. A zero RequestsPerSecond disables
// the rate limit.
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &HTTPClient{
		client:     &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelays,
	}
}

// Response contains the result of a request.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Attempts   int
}

// Do sends the request, retrying transport errors, 429 and 5xx responses.
// Any other response, including 4xx, is returned without error so the
// caller can interpret it.
func (c *HTTPClient) Do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error) {
	result := &Response{}
	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		result.Attempts = attempt + 1

		if attempt > 0 {
			if err := sleep(ctx, c.delay(attempt)); err != nil {
				return result, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return result, err
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return result, fmt.Errorf("failed to create request: %w", err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("User-Agent", "studiodesk/1.0")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		result.StatusCode = resp.StatusCode
		result.Body = data

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, truncate(data))
			continue
		}

		result.Duration = time.Since(start)
		return result, nil
	}

	result.Duration = time.Since(start)
	re := errors.NewRecoverableError("remote mirror request failed", errors.ErrMirrorUnavailable, c.maxRetries)
	re.RetryCount = c.maxRetries
	re.CanRetry = false
	return result, errors.Wrap(re, lastErrText(lastErr))
}

// CloseIdleConnections releases pooled connections.
func (c *HTTPClient) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

func (c *HTTPClient) delay(attempt int) time.Duration {
	if attempt < len(c.retryDelay) {
		return c.retryDelay[attempt]
	}
	if n := len(c.retryDelay); n > 0 {
		return c.retryDelay[n-1]
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

func lastErrText(err error) string {
	if err == nil {
		return "max retries exceeded"
	}
	return err.Error()
}

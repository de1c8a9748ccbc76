// Package httpfetch is the shared HTTP client for third-party content APIs.
// Every request goes through one adaptive rate limiter and carries a timeout.
// There are no retries: a failed fetch is reported to the caller as is.
package httpfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultMaxBody caps how much of a response body is read.
const DefaultMaxBody = 2 << 20

// ErrBodyTooLarge is returned when a successful response exceeds the body cap.
var ErrBodyTooLarge = errors.New("response body too large")

// UserAgent is sent with every request.
var UserAgent = "AinnieBot (+https://github.com/keshon/ainnie)"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http %d", e.Method, e.URL, e.Code)
}

// StatusCode returns the HTTP status of the failed response.
func (e *StatusError) StatusCode() int { return e.Code }

// Client performs rate-limited requests.
type Client struct {
	http    *http.Client
	limiter *AdaptiveLimiter
	timeout time.Duration
	maxBody int64
}

// New creates a Client with the given per-request timeout and starting rate in
// requests per second.
func New(timeout time.Duration, rps float64) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		http:    &http.Client{},
		limiter: NewAdaptiveLimiter(rate.Limit(rps), 1, rate.Limit(rps*4), 1, 0.5),
		timeout: timeout,
		maxBody: DefaultMaxBody,
	}
}

// Limiter exposes the client's rate limiter.
func (c *Client) Limiter() *AdaptiveLimiter { return c.limiter }

// Get fetches url and returns the response body. Non-2xx responses produce a
// *StatusError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// PostJSON sends payload as a JSON body and returns the response body.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, data)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	tooLarge := int64(len(data)) > c.maxBody
	if tooLarge {
		data = data[:c.maxBody]
	}

	log.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("fetch")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.limiter.RateLimited()
			log.Warn().Str("url", url).Int("status", resp.StatusCode).Float64("limit", c.limiter.CurrentLimit()).Msg("fetch pushback")
		}
		return nil, &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: truncate(data)}
	}

	c.limiter.Success()
	if tooLarge {
		return nil, fmt.Errorf("%s %s: %w (limit %d bytes)", method, url, ErrBodyTooLarge, c.maxBody)
	}
	return data, nil
}

func truncate(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}

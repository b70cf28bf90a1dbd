// Package client talks to the remote order API: workflow definitions and
// provisioning, page-count analysis and order creation. All calls share one
// base URL, one rate limiter and one retry policy.
//
// Usage:
//
//	c := client.New("https://api.example.com/api",
//	    client.WithTimeout(30*time.Second),
//	    client.WithRateLimit(10, 5),
//	)
//	steps, err := c.GetWorkflow(ctx, "12")
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wael7705/khawam-pro-sub000/backoff"
)

const maxErrorBody = 64 << 10

// Client is an HTTP client for the order API. It is safe for concurrent
// use.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	limiter *rate.Limiter
	retries int
	backoff backoff.Strategy
	timeout time.Duration
	logger  *slog.Logger
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		limiter: rate.NewLimiter(rate.Limit(10), 5),
		retries: 2,
		backoff: backoff.Default(),
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one API call. body is re-created for each attempt.
type request struct {
	method     string
	path       string
	body       func() (io.Reader, string, error)
	idempotent bool
	operation  string
}

func jsonBody(v any) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// do performs req, retrying idempotent calls on transport errors, 429 and
// 5xx responses, and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, req request, out any) error {
	attempts := 1
	if req.idempotent {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.logger.Debug("retrying api call",
				slog.String("operation", req.operation),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()),
			)
			if err := backoff.Wait(ctx, c.backoff, attempt-1); err != nil {
				return fmt.Errorf("orderflow/client: %s: %w", req.operation, err)
			}
		}

		retry, err := c.attempt(ctx, req, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, req request, out any) (retry bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("orderflow/client: %s: %w", req.operation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		body        io.Reader
		contentType string
	)
	if req.body != nil {
		body, contentType, err = req.body()
		if err != nil {
			return false, fmt.Errorf("orderflow/client: %s: encode: %w", req.operation, err)
		}
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return false, fmt.Errorf("orderflow/client: %s: %w", req.operation, err)
	}
	hreq.Header.Set("Accept", "application/json")
	if contentType != "" {
		hreq.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		hreq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(hreq)
	if err != nil {
		return !errors.Is(err, context.Canceled), fmt.Errorf("orderflow/client: %s: %w", req.operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			Operation: req.operation,
			Status:    resp.StatusCode,
			Message:   NormalizeMessage(raw, resp.StatusCode),
			Body:      raw,
		}
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("orderflow/client: %s: decode response: %w", req.operation, err)
	}
	return false, nil
}

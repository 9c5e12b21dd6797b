// Package remote implements an HTTP client for a public card metadata API,
// used to fill card index misses.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.pokemontcg.io/v2"
	rateLimitDelay = 100 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 8 * time.Second
)

// Client is a rate-limited card API client.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	apiKey      string
	backoff     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (useful for tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithAPIKey sets the API key header for authenticated rate limits.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// NewClient creates a card API client.
func NewClient(options ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "deckimport/1.0",
		backoff:     initialBackoff,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// SearchByName returns every printing whose name matches exactly.
func (c *Client) SearchByName(ctx context.Context, name string) ([]*apiCard, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("name:%q", name))

	var page cardPage
	endpoint := fmt.Sprintf("%s/cards?%s", c.baseURL, q.Encode())
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}
	return page.Data, nil
}

// doRequest performs a rate-limited GET with retries and exponential
// backoff, decoding the JSON body into out.
func (c *Client) doRequest(ctx context.Context, endpoint string, out any) error {
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			if err := sleepBackoff(ctx, &backoff); err != nil {
				return err
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			_ = resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server returned %d after %d attempts", resp.StatusCode, attempt+1)
			}
			if err := sleepBackoff(ctx, &backoff); err != nil {
				return err
			}
		default:
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
	}

	return fmt.Errorf("request failed after %d attempts", maxRetries+1)
}

// sleepBackoff waits for the current backoff, doubling it up to the cap.
func sleepBackoff(ctx context.Context, backoff *time.Duration) error {
	timer := time.NewTimer(*backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	*backoff *= 2
	if *backoff > maxBackoff {
		*backoff = maxBackoff
	}
	return nil
}

package talks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 5 * time.Second

	// maxBodySize bounds how much of a response is read.
	maxBodySize = 8 << 20
)

// Cache stores successful response bodies by request path.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

// Client talks to the talks REST API. It performs exactly one GET per call:
// there is no retry nor de-duplication of concurrent requests.
type Client struct {
	client  *http.Client
	baseURL string
	cache   Cache
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, which uses a 5 seconds timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client = &http.Client{Timeout: d}
		}
	}
}

// WithCache stores successful responses in the given cache and serves them from it.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger used to trace failed fetches.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new client for the talks API served at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Talks returns the talks selected by the query.
// A successful response that is not a JSON array yields no talks.
func (c *Client) Talks(ctx context.Context, q Query) ([]Talk, error) {
	body, err := c.get(ctx, q.Path(), true)
	if err != nil {
		return nil, err
	}
	return decodeList[Talk](body)
}

// Categories returns the distinct category labels. The endpoint has no error
// envelope, so failures only carry the HTTP status.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/categories", false)
	if err != nil {
		return nil, err
	}
	return decodeList[string](body)
}

// Speakers returns the distinct speakers of all the talks.
func (c *Client) Speakers(ctx context.Context) ([]Speaker, error) {
	body, err := c.get(ctx, "/api/speakers", true)
	if err != nil {
		return nil, err
	}
	return decodeList[Speaker](body)
}

func (c *Client) get(ctx context.Context, path string, envelope bool) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, path); ok {
			return body, nil
		}
	}

	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("error fetching talks API", "url", url, "error", err)
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logger.Warn("error reading talks API response", "url", url, "error", err)
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(url, resp.StatusCode, body, envelope)
		c.logger.Warn("talks API returned an error", "url", url, "status", resp.StatusCode, "error", apiErr)
		return nil, apiErr
	}

	if c.cache != nil {
		c.cache.Set(ctx, path, body)
	}

	return body, nil
}

// decodeList decodes a JSON array. Valid JSON that is not an array decodes to
// an empty list; invalid JSON is an error.
func decodeList[T any](body []byte) ([]T, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return items, nil
}

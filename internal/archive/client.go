package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"
)

// DayFetcher retrieves the first day entry of a manifest.
// This interface is implemented by *Client and can be used for testing.
type DayFetcher interface {
	FetchDay(ctx context.Context, manifestURL string) (Day, error)
}

// Ensure Client implements DayFetcher at compile time.
var _ DayFetcher = (*Client)(nil)

// Client talks to the archive's manifest endpoints.
type Client struct {
	http      *http.Client
	userAgent string
	inflight  singleflight.Group
}

// DefaultUserAgent identifies Lookout to the archive.
const DefaultUserAgent = "lookout/0.1"

const (
	requestTimeout   = 10 * time.Second
	maxManifestBytes = 8 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client with a bounded request timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchManifest retrieves and decodes the manifest at manifestURL. Requests
// for the same URL that overlap in time share one round trip.
func (c *Client) FetchManifest(ctx context.Context, manifestURL string) (Manifest, error) {
	if c == nil {
		return nil, &FetchError{URL: manifestURL, Err: fmt.Errorf("client is nil")}
	}
	v, err, _ := c.inflight.Do(manifestURL, func() (any, error) {
		return c.fetch(ctx, manifestURL)
	})
	if err != nil {
		return nil, err
	}
	return v.(Manifest), nil
}

// FetchDay retrieves the manifest and returns its first day entry.
func (c *Client) FetchDay(ctx context.Context, manifestURL string) (Day, error) {
	manifest, err := c.FetchManifest(ctx, manifestURL)
	if err != nil {
		return Day{}, err
	}
	return manifest.First(), nil
}

func (c *Client) fetch(ctx context.Context, manifestURL string) (Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, &FetchError{URL: manifestURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	// Same URL, new content throughout the day.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: manifestURL, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        manifestURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return nil, &FetchError{URL: manifestURL, Err: fmt.Errorf("read response: %w", err)}
	}

	var manifest Manifest
	if err := sonic.Unmarshal(body, &manifest); err != nil {
		return nil, &FetchError{URL: manifestURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return manifest, nil
}

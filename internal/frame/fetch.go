package frame

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"time"

	_ "golang.org/x/image/webp"
)

const maxImageBytes = 32 << 20

// Fetcher downloads and decodes snapshot images.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a fetcher using client, or a client with a 20s timeout
// when client is nil.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Fetch retrieves rawURL and decodes it. Scheme-relative and relative URLs
// are resolved against base, normally the owning manifest URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, base string) (image.Image, error) {
	target, err := absolute(rawURL, base)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch image %s: returned status %d", target, resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", target, err)
	}
	return img, nil
}

func absolute(rawURL, base string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse image url %q: %w", rawURL, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return "", fmt.Errorf("image url %q has no absolute base", rawURL)
	}
	return b.ResolveReference(ref).String(), nil
}

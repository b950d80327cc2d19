package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher retrieves the bytes of a remote image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches images with a plain GET request.
type HTTPFetcher struct {
	// Client is the client to use. When nil, http.DefaultClient is used.
	Client *http.Client
}

// Fetch downloads the given URL. Any status other than 200 is an error.
func (h *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	c := h.Client
	if c == nil {
		c = http.DefaultClient
	}

	res, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}

	return io.ReadAll(res.Body)
}

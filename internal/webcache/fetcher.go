package webcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

// Fetcher retrieves assets through the cache store. Static assets are
// cache-first; data files are network-first with the cache as the
// offline fallback.
type Fetcher struct {
	store  *Store
	client *http.Client
	origin string
	logger *logging.Logger
}

// NewFetcher builds a fetcher caching same-origin responses only.
// origin is the scheme://host the app is served from.
func NewFetcher(store *Store, client *http.Client, origin string, logger *logging.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Fetcher{store: store, client: client, origin: origin, logger: logger}
}

// FetchStatic serves a static asset cache-first: cache hit wins, a
// miss goes to the network and populates the cache, and total failure
// falls back to the cached root document.
func (f *Fetcher) FetchStatic(ctx context.Context, rawURL string) ([]byte, error) {
	if body, ok, err := f.store.Get(rawURL); err != nil {
		return nil, err
	} else if ok {
		return body, nil
	}

	body, err := f.get(ctx, rawURL)
	if err != nil {
		if root, ok, cacheErr := f.store.Get(f.origin + "/"); cacheErr == nil && ok {
			f.logger.WarnContext(ctx, "static fetch failed, serving root document", "url", rawURL, "error", err)
			return root, nil
		}
		return nil, fmt.Errorf("fetch static %s: %w", rawURL, err)
	}

	if f.sameOrigin(rawURL) {
		if err := f.store.Put(rawURL, body); err != nil {
			f.logger.WarnContext(ctx, "could not cache static asset", "url", rawURL, "error", err)
		}
	}
	return body, nil
}

// FetchData serves a data file network-first: a live response always
// wins and refreshes the cache; the cached copy is returned only when
// the request fails at the transport level.
func (f *Fetcher) FetchData(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := f.get(ctx, rawURL)
	if err == nil {
		if putErr := f.store.Put(rawURL, body); putErr != nil {
			f.logger.WarnContext(ctx, "could not cache data file", "url", rawURL, "error", putErr)
		}
		return body, nil
	}

	if cached, ok, cacheErr := f.store.Get(rawURL); cacheErr == nil && ok {
		f.logger.WarnContext(ctx, "data fetch failed, serving cached copy", "url", rawURL, "error", err)
		return cached, nil
	}

	return nil, fmt.Errorf("fetch data %s: %w", rawURL, err)
}

// get returns the response body for any completed HTTP exchange. An
// HTTP error status is still a completed exchange; only transport
// failures surface as errors.
func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) sameOrigin(rawURL string) bool {
	if f.origin == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	o, err := url.Parse(f.origin)
	if err != nil {
		return false
	}
	return u.Scheme == o.Scheme && u.Host == o.Host
}

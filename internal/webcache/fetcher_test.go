package webcache

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

func newTestFetcher(t *testing.T, handler http.Handler) (*Fetcher, *Store, *httptest.Server, *int64) {
	t.Helper()

	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	store, err := NewStore(t.TempDir(), "futbolbase-v1")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	fetcher := NewFetcher(store, server.Client(), server.URL, logging.NewNop())
	return fetcher, store, server, &hits
}

func TestFetchStaticCacheFirst(t *testing.T) {
	t.Parallel()

	fetcher, _, server, hits := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("asset-body"))
	}))

	url := server.URL + "/app.css"

	first, err := fetcher.FetchStatic(t.Context(), url)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := fetcher.FetchStatic(t.Context(), url)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if string(first) != "asset-body" || string(second) != "asset-body" {
		t.Fatalf("unexpected bodies: %q %q", first, second)
	}
	if got := atomic.LoadInt64(hits); got != 1 {
		t.Fatalf("cache hit should skip the network, got %d requests", got)
	}
}

func TestFetchStaticFallsBackToRootDocument(t *testing.T) {
	t.Parallel()

	fetcher, store, server, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	if err := store.Put(server.URL+"/", []byte("<html>shell</html>")); err != nil {
		t.Fatalf("seed root document: %v", err)
	}
	server.Close()

	body, err := fetcher.FetchStatic(t.Context(), server.URL+"/nunca-visto.css")
	if err != nil {
		t.Fatalf("expected root document fallback, got %v", err)
	}
	if string(body) != "<html>shell</html>" {
		t.Fatalf("unexpected fallback body: %q", body)
	}
}

func TestFetchStaticSkipsCrossOriginCache(t *testing.T) {
	t.Parallel()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("font-data"))
	}))
	t.Cleanup(remote.Close)

	store, err := NewStore(t.TempDir(), "futbolbase-v1")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	fetcher := NewFetcher(store, remote.Client(), "https://app.example.test", logging.NewNop())

	if _, err := fetcher.FetchStatic(t.Context(), remote.URL+"/font.woff2"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, ok, _ := store.Get(remote.URL + "/font.woff2"); ok {
		t.Fatal("cross-origin response must not be cached")
	}
}

func TestFetchDataNetworkFirstRefreshesCache(t *testing.T) {
	t.Parallel()

	var generation atomic.Int64
	fetcher, store, server, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if generation.Load() == 0 {
			_, _ = w.Write([]byte("const BENJAMIN=[1];"))
		} else {
			_, _ = w.Write([]byte("const BENJAMIN=[1,2];"))
		}
	}))

	url := server.URL + "/data-benjamin.js"

	first, err := fetcher.FetchData(t.Context(), url)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if string(first) != "const BENJAMIN=[1];" {
		t.Fatalf("unexpected first body: %q", first)
	}

	generation.Store(1)
	second, err := fetcher.FetchData(t.Context(), url)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if string(second) != "const BENJAMIN=[1,2];" {
		t.Fatalf("live response must win over cache: %q", second)
	}

	cached, ok, err := store.Get(url)
	if err != nil || !ok || string(cached) != "const BENJAMIN=[1,2];" {
		t.Fatalf("cache should hold the latest copy: ok=%t err=%v body=%q", ok, err, cached)
	}
}

func TestFetchDataServesCacheWhenOffline(t *testing.T) {
	t.Parallel()

	fetcher, _, server, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("const BENJAMIN=[1];"))
	}))

	url := server.URL + "/data-benjamin.js"
	if _, err := fetcher.FetchData(t.Context(), url); err != nil {
		t.Fatalf("warm fetch: %v", err)
	}

	server.Close()

	body, err := fetcher.FetchData(t.Context(), url)
	if err != nil {
		t.Fatalf("expected cached fallback, got %v", err)
	}
	if string(body) != "const BENJAMIN=[1];" {
		t.Fatalf("unexpected fallback body: %q", body)
	}
}

func TestFetchDataErrorStatusIsStillAResponse(t *testing.T) {
	t.Parallel()

	fetcher, _, server, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not here"))
	}))

	body, err := fetcher.FetchData(t.Context(), server.URL+"/missing.js")
	if err != nil {
		t.Fatalf("completed exchange should not error: %v", err)
	}
	if string(body) != "not here" {
		t.Fatalf("unexpected body: %q", body)
	}
}

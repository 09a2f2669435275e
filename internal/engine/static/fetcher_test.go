// internal/engine/static/fetcher_test.go
package static

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/pdp/internal/cache"
	"github.com/law-makers/pdp/internal/engine"
	"github.com/law-makers/pdp/internal/retry"
	"github.com/law-makers/pdp/pkg/models"
)

func newTestFetcher(c cache.Cache) *Fetcher {
	return New(Options{
		Cache:    c,
		CacheTTL: time.Minute,
		Client:   &http.Client{},
		Retry: retry.Config{
			MaxAttempts:          3,
			InitialBackoff:       time.Millisecond,
			MaxBackoff:           5 * time.Millisecond,
			Multiplier:           2,
			RetryableStatusCodes: retry.DefaultConfig().RetryableStatusCodes,
		},
		Timeout:   5 * time.Second,
		UserAgent: "pdp-test/1.0",
	})
}

func TestFetcher_Fetch_BasicHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html><body><h1 data-testid="product-title">Shirt</h1></body></html>`))
	}))
	defer server.Close()

	doc, err := newTestFetcher(nil).Fetch(context.Background(), models.FetchOptions{URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if doc.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", doc.StatusCode)
	}
	if doc.HTML == "" {
		t.Error("Expected HTML content")
	}
	if doc.Engine != "static" {
		t.Errorf("Expected engine static, got %s", doc.Engine)
	}
	if doc.Headers["Content-Type"] != "text/html" {
		t.Errorf("Expected Content-Type header, got %q", doc.Headers["Content-Type"])
	}
}

func TestFetcher_Fetch_Headers(t *testing.T) {
	var gotUA, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Test")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	_, err := newTestFetcher(nil).Fetch(context.Background(), models.FetchOptions{
		URL:     server.URL,
		Headers: map[string]string{"X-Test": "yes"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotUA != "pdp-test/1.0" {
		t.Errorf("Expected configured user agent, got %q", gotUA)
	}
	if gotCustom != "yes" {
		t.Errorf("Expected custom header, got %q", gotCustom)
	}
}

func TestFetcher_Fetch_NotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(nil).Fetch(context.Background(), models.FetchOptions{URL: server.URL})
	if err == nil {
		t.Fatal("Expected error for 404")
	}

	fe, ok := engine.AsFetchError(err)
	if !ok {
		t.Fatalf("Expected *engine.FetchError, got %T", err)
	}
	if fe.Code != engine.ErrCodeHTTPStatus || fe.StatusCode != http.StatusNotFound {
		t.Errorf("Unexpected error: %v", fe)
	}
	if !errors.Is(err, engine.ErrBadStatus) {
		t.Error("Expected error to wrap ErrBadStatus")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected 404 not to be retried, got %d calls", n)
	}
}

func TestFetcher_Fetch_RetriesServiceUnavailable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	doc, err := newTestFetcher(nil).Fetch(context.Background(), models.FetchOptions{URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if doc.HTML != "<html>ok</html>" {
		t.Errorf("Unexpected body %q", doc.HTML)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("Expected 3 calls, got %d", n)
	}
}

func TestFetcher_Fetch_RetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestFetcher(nil).Fetch(context.Background(), models.FetchOptions{URL: server.URL})
	fe, ok := engine.AsFetchError(err)
	if !ok {
		t.Fatalf("Expected *engine.FetchError, got %v", err)
	}
	if fe.StatusCode != http.StatusBadGateway || !fe.Temporary() {
		t.Errorf("Unexpected error: %v", fe)
	}
}

func TestFetcher_Fetch_CacheHit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("<html>cached</html>"))
	}))
	defer server.Close()

	c := cache.NewMemoryCache(1024 * 1024)
	defer c.Close()
	f := newTestFetcher(c)

	for i := 0; i < 2; i++ {
		doc, err := f.Fetch(context.Background(), models.FetchOptions{URL: server.URL})
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
		if doc.HTML != "<html>cached</html>" {
			t.Errorf("Unexpected body %q", doc.HTML)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected 1 request with cache, got %d", n)
	}
}

func TestFetcher_Fetch_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "ftp://example.com", "not a url"} {
		_, err := newTestFetcher(nil).Fetch(context.Background(), models.FetchOptions{URL: u})
		if !errors.Is(err, &engine.FetchError{Code: engine.ErrCodeInvalidURL}) {
			t.Errorf("Expected INVALID_URL for %q, got %v", u, err)
		}
	}
}

func TestFetcher_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	f := newTestFetcher(nil)
	f.retry.MaxAttempts = 1

	_, err := f.Fetch(context.Background(), models.FetchOptions{URL: server.URL, Timeout: 50 * time.Millisecond})
	fe, ok := engine.AsFetchError(err)
	if !ok {
		t.Fatalf("Expected *engine.FetchError, got %v", err)
	}
	if fe.Code != engine.ErrCodeTimeout {
		t.Errorf("Expected TIMEOUT, got %s", fe.Code)
	}
}

func TestFetcher_Fetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(nil).Fetch(ctx, models.FetchOptions{URL: server.URL})
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if _, ok := engine.AsFetchError(err); !ok {
		t.Errorf("Expected *engine.FetchError, got %T", err)
	}
}

// internal/engine/static/fetcher.go
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/law-makers/pdp/internal/cache"
	"github.com/law-makers/pdp/internal/engine"
	"github.com/law-makers/pdp/internal/retry"
	urlutil "github.com/law-makers/pdp/internal/utils/url"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 20 * 1024 * 1024

// Fetcher retrieves server-rendered pages with plain HTTP requests
type Fetcher struct {
	cache     cache.Cache
	cacheTTL  time.Duration
	client    *http.Client
	retry     retry.Config
	timeout   time.Duration
	userAgent string
}

// Options configures a Fetcher
type Options struct {
	Cache     cache.Cache // optional
	CacheTTL  time.Duration
	Client    *http.Client
	Retry     retry.Config
	Timeout   time.Duration
	UserAgent string
}

// New creates a static Fetcher. The client's transport carries any proxy
// configuration.
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		client:    client,
		retry:     opts.Retry,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "static"
}

// Fetch retrieves the page, retrying transient failures
func (f *Fetcher) Fetch(ctx context.Context, opts models.FetchOptions) (*models.Document, error) {
	if err := urlutil.ValidateURL(opts.URL); err != nil {
		return nil, engine.NewFetchError(engine.ErrCodeInvalidURL, opts.URL, fmt.Errorf("%w: %v", engine.ErrInvalidURL, err))
	}

	key := cache.KeyFromURL(opts.URL)
	if f.cache != nil {
		if doc, ok := f.cache.Get(key); ok {
			log.Debug().Str("url", opts.URL).Msg("Serving document from cache")
			return doc, nil
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.timeout
	}

	var doc *models.Document
	var lastErr *engine.FetchError

	err := retry.WithRetry(ctx, f.retry, func() error {
		d, ferr := f.do(ctx, opts, timeout)
		if ferr != nil {
			lastErr = ferr
			return ferr
		}
		doc = d
		return nil
	})
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, engine.ClassifyNetworkError(opts.URL, err)
	}

	if f.cache != nil {
		if err := f.cache.Set(key, doc, f.cacheTTL); err != nil {
			log.Warn().Err(err).Str("url", opts.URL).Msg("Failed to cache document")
		}
	}

	return doc, nil
}

// do performs a single attempt
func (f *Fetcher) do(ctx context.Context, opts models.FetchOptions, timeout time.Duration) (*models.Document, *engine.FetchError) {
	start := time.Now()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, engine.NewFetchError(engine.ErrCodeInvalidURL, opts.URL, fmt.Errorf("%w: %v", engine.ErrInvalidURL, err))
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, engine.ClassifyNetworkError(opts.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, engine.NewStatusError(opts.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, engine.ClassifyNetworkError(opts.URL, fmt.Errorf("failed to read body: %w", err))
	}

	doc := &models.Document{
		URL:          opts.URL,
		FinalURL:     resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		HTML:         string(body),
		Headers:      make(map[string]string, len(resp.Header)),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
		Engine:       f.Name(),
	}

	for key, values := range resp.Header {
		if len(values) > 0 {
			doc.Headers[key] = values[0]
		}
	}

	log.Debug().
		Str("url", opts.URL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", doc.ResponseTime).
		Int("bytes", len(body)).
		Msg("Fetch completed")

	return doc, nil
}

// internal/engine/dynamic/fetcher.go
package dynamic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/pdp/internal/engine"
	urlutil "github.com/law-makers/pdp/internal/utils/url"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 30 * time.Second
	defaultSettle  = 500 * time.Millisecond
)

// PoolProvider returns the shared browser pool, starting it on first use
type PoolProvider func(ctx context.Context) (*BrowserPool, error)

// Fetcher renders pages in headless Chrome so client-side markup is present
type Fetcher struct {
	pool    PoolProvider
	timeout time.Duration
	settle  time.Duration
}

// New creates a dynamic Fetcher. settle is how long to let scripts run after
// the document is ready.
func New(pool PoolProvider, timeout, settle time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if settle < 0 {
		settle = defaultSettle
	}
	return &Fetcher{
		pool:    pool,
		timeout: timeout,
		settle:  settle,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "dynamic"
}

// Fetch navigates to the page and returns the rendered outer HTML
func (f *Fetcher) Fetch(ctx context.Context, opts models.FetchOptions) (*models.Document, error) {
	if err := urlutil.ValidateURL(opts.URL); err != nil {
		return nil, engine.NewFetchError(engine.ErrCodeInvalidURL, opts.URL, fmt.Errorf("%w: %v", engine.ErrInvalidURL, err))
	}
	if f.pool == nil {
		return nil, engine.NewFetchError(engine.ErrCodeBrowserError, opts.URL, engine.ErrBrowserPool)
	}

	start := time.Now()
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.timeout
	}

	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	pool, err := f.pool(ctx)
	if err != nil {
		return nil, engine.NewFetchError(engine.ErrCodeBrowserError, opts.URL, err)
	}

	acquireCtx, cancelAcquire := context.WithTimeout(ctx, timeout)
	bc, err := pool.Acquire(acquireCtx)
	cancelAcquire()
	if err != nil {
		return nil, engine.NewFetchError(engine.ErrCodeBrowserError, opts.URL, err).WithRetry()
	}
	defer pool.Release(bc)

	tabCtx, cancel := context.WithTimeout(bc.Ctx, timeout)
	defer cancel()

	// stop rendering when the caller gives up
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp := &mainResponse{headers: make(map[string]string)}
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventResponseReceived); ok && ev.Type == network.ResourceTypeDocument {
			resp.record(ev.Response)
		}
	})

	var html, finalURL string
	tasks := chromedp.Tasks{network.Enable()}
	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(headers))
	}
	tasks = append(tasks,
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.settle),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctx.Err() == nil && tabCtx.Err() == context.DeadlineExceeded {
			return nil, engine.NewFetchError(engine.ErrCodeTimeout, opts.URL, fmt.Errorf("%w: %v", engine.ErrTimeout, err)).WithRetry()
		}
		return nil, engine.NewFetchError(engine.ErrCodeBrowserError, opts.URL, fmt.Errorf("chromedp execution failed: %w", err))
	}

	status, headers := resp.snapshot()
	if status != 0 && (status < 200 || status > 299) {
		return nil, engine.NewStatusError(opts.URL, status)
	}

	doc := &models.Document{
		URL:          opts.URL,
		FinalURL:     finalURL,
		StatusCode:   status,
		HTML:         html,
		Headers:      headers,
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
		Engine:       f.Name(),
	}

	log.Debug().
		Str("url", opts.URL).
		Int("status", status).
		Int64("response_time_ms", doc.ResponseTime).
		Int("bytes", len(html)).
		Msg("Fetch completed")

	return doc, nil
}

// mainResponse keeps the last document response seen, which after redirects
// is the page that was rendered
type mainResponse struct {
	mu      sync.Mutex
	status  int
	headers map[string]string
}

func (m *mainResponse) record(r *network.Response) {
	if r == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = int(r.Status)
	m.headers = make(map[string]string, len(r.Headers))
	for key, value := range r.Headers {
		if s, ok := value.(string); ok {
			m.headers[key] = s
		}
	}
}

func (m *mainResponse) snapshot() (int, map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.headers
}

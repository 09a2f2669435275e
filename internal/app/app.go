// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/law-makers/pdp/internal/cache"
	"github.com/law-makers/pdp/internal/config"
	"github.com/law-makers/pdp/internal/downloader"
	"github.com/law-makers/pdp/internal/engine"
	"github.com/law-makers/pdp/internal/engine/dynamic"
	"github.com/law-makers/pdp/internal/engine/hybrid"
	"github.com/law-makers/pdp/internal/engine/static"
	"github.com/law-makers/pdp/internal/extractor"
	"github.com/law-makers/pdp/internal/pipeline"
	"github.com/law-makers/pdp/internal/proxy"
	"github.com/law-makers/pdp/internal/retry"
	"github.com/law-makers/pdp/internal/sink"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation and shared by the subcommands.
// Use Close() to release the browser pool and cached documents on shutdown.
type Application struct {
	Config         *config.Config
	Logger         *zerolog.Logger
	Cache          cache.Cache
	Proxies        *proxy.ProxyPool
	HTTPClient     *http.Client
	BrowserPool    *dynamic.BrowserPool
	poolMu         sync.Mutex
	StaticFetcher  *static.Fetcher
	DynamicFetcher *dynamic.Fetcher
	HybridFetcher  *hybrid.Fetcher
	Extractor      *extractor.Extractor
	Downloader     *downloader.Downloader
	startTime      time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global logger from the config
//   - Creates the in-memory document cache
//   - Builds the proxy rotation pool and the shared HTTP client
//   - Creates the static, dynamic and hybrid fetchers
//   - Creates the product extractor and the image downloader
//
// The browser pool is not started here; it is created on the first dynamic fetch.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := configureLogger(cfg)

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Dur("ttl", cfg.CacheTTL).
		Msg("Memory cache initialized")

	proxies := proxy.NewProxyPool(cfg.Proxies)

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	if proxies.Len() > 0 {
		transport.Proxy = proxies.ProxyFunc()
	}

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: transport,
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Int("proxies", proxies.Len()).
		Msg("HTTP client initialized")

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryMaxAttempts
	retryCfg.InitialBackoff = cfg.RetryInitialBackoff

	a := &Application{
		Config:     cfg,
		Logger:     &logger,
		Cache:      memCache,
		Proxies:    proxies,
		HTTPClient: httpClient,
		Extractor:  extractor.New(extractor.Options{BaseURL: cfg.BaseURL}),
		Downloader: downloader.NewDownloader(httpClient, cfg.HTTPTimeout, cfg.UserAgent),
		startTime:  time.Now(),
	}

	a.StaticFetcher = static.New(static.Options{
		Cache:     memCache,
		CacheTTL:  cfg.CacheTTL,
		Client:    httpClient,
		Retry:     retryCfg,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})

	// The pool is created lazily so static extractions never start Chrome.
	a.DynamicFetcher = dynamic.New(a.ensureBrowserPool, cfg.HTTPTimeout, cfg.RenderSettle)
	a.HybridFetcher = hybrid.New(a.StaticFetcher, a.DynamicFetcher)
	logger.Debug().Msg("Fetchers initialized")

	logger.Debug().Msg("Application initialized successfully")
	return a, nil
}

// configureLogger sets the global zerolog level and writer. The default
// "info" level is treated as non-verbose so the CLI output stays clean;
// only warnings and errors reach stderr unless -v is given.
func configureLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.WarnLevel
	switch cfg.LogLevel {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "disabled":
		level = zerolog.Disabled
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stderr
	if !cfg.JSONLog {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	logger := log.Logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return logger
}

// EnsureBrowserPool lazily creates the browser pool if it has not already been
// initialized. Callers should provide a context with an appropriate timeout.
func (a *Application) EnsureBrowserPool(ctx context.Context) error {
	_, err := a.ensureBrowserPool(ctx)
	return err
}

func (a *Application) ensureBrowserPool(ctx context.Context) (*dynamic.BrowserPool, error) {
	if a == nil {
		return nil, fmt.Errorf("application is nil")
	}

	a.poolMu.Lock()
	defer a.poolMu.Unlock()

	if a.BrowserPool != nil {
		return a.BrowserPool, nil
	}

	// Chrome takes a single proxy for the whole process
	var browserProxy string
	if a.Proxies != nil {
		browserProxy = a.Proxies.GetNext()
	}

	a.Logger.Debug().Msg("Initializing browser pool on demand")
	pool, err := dynamic.NewBrowserPool(ctx, dynamic.BrowserPoolOptions{
		Size:       a.Config.BrowserPoolSize,
		Headless:   a.Config.BrowserHeadless,
		UserAgent:  a.Config.UserAgent,
		Proxy:      browserProxy,
		ChromePath: a.Config.ChromePath,
	})
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to create browser pool on demand")
		return nil, err
	}

	a.BrowserPool = pool
	a.Logger.Info().Int("pool_size", pool.Size()).Msg("Browser pool initialized on demand")
	return pool, nil
}

// Fetcher returns the engine serving mode: static for plain HTTP, dynamic
// for a rendered browser fetch, and hybrid for auto.
func (a *Application) Fetcher(mode models.FetchMode) (engine.Fetcher, error) {
	switch mode {
	case models.ModeStatic:
		return a.StaticFetcher, nil
	case models.ModeSPA:
		return a.DynamicFetcher, nil
	case models.ModeAuto, "":
		return a.HybridFetcher, nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q (expected auto, static or spa)", mode)
	}
}

// OpenSink opens the record destination named by target with the store
// settings from the config.
func (a *Application) OpenSink(ctx context.Context, target string) (sink.Sink, error) {
	return sink.Open(ctx, target, sink.Options{
		MongoDatabase:   a.Config.MongoDatabase,
		MongoCollection: a.Config.MongoCollection,
		S3Region:        a.Config.S3Region,
		PostgresTable:   a.Config.PostgresTable,
	})
}

// Pipeline builds a fetch, extract and emit pipeline for mode
func (a *Application) Pipeline(mode models.FetchMode, headers map[string]string, out pipeline.Emitter) (*pipeline.Pipeline, error) {
	fetcher, err := a.Fetcher(mode)
	if err != nil {
		return nil, err
	}
	return pipeline.New(fetcher, a.Extractor, out, pipeline.Options{
		Mode:    mode,
		Headers: headers,
		Timeout: a.Config.HTTPTimeout,
	}), nil
}

// Close gracefully shuts down the application and all its resources.
//
// It closes the browser pool, stops the cache cleanup routine and drops
// idle HTTP connections. Errors are logged and never stop later steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	a.poolMu.Lock()
	if a.BrowserPool != nil {
		if err := a.BrowserPool.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser pool")
		}
		a.BrowserPool = nil
	}
	a.poolMu.Unlock()

	if a.Cache != nil {
		a.Cache.Close()
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

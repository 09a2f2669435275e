package config

import (
	"fmt"

	"github.com/law-makers/pdp/internal/proxy"
	urlutil "github.com/law-makers/pdp/internal/utils/url"
	"github.com/rs/zerolog"
)

func validate(c *Config) error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be >= 1")
	}
	if c.RetryInitialBackoff < 0 {
		return fmt.Errorf("retry initial backoff must be >= 0")
	}
	if err := urlutil.ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	for _, p := range c.Proxies {
		if _, err := proxy.Parse(p); err != nil {
			return err
		}
	}
	if c.BrowserPoolSize <= 0 || c.BrowserPoolSize > DefaultMaxBrowserPoolSize {
		return fmt.Errorf("browser pool size must be between 1 and %d", DefaultMaxBrowserPoolSize)
	}
	if c.RenderSettle < 0 {
		return fmt.Errorf("render settle must be >= 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	// 0 selects an automatic worker count
	if c.Concurrency < 0 || c.Concurrency > DefaultMaxConcurrency {
		return fmt.Errorf("concurrency must be between 0 and %d", DefaultMaxConcurrency)
	}
	if c.ImageWorkers < 1 {
		return fmt.Errorf("image workers must be >= 1")
	}
	return nil
}

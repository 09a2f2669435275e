package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel            = "info"
	DefaultJSONLog             = false
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultBaseURL             = "https://www.next.co.uk/"
	DefaultHTTPTimeout         = 30 * time.Second
	DefaultCacheTTL            = 5 * time.Minute
	DefaultCacheMaxSizeBytes   = 100 * 1024 * 1024 // 100MB
	DefaultRetryMaxAttempts    = 3
	DefaultRetryInitialBackoff = 1 * time.Second
	DefaultBrowserPoolSize     = 1
	DefaultMaxBrowserPoolSize  = 10
	DefaultBrowserHeadless     = true
	DefaultRenderSettle        = 500 * time.Millisecond
	DefaultConcurrency         = 1
	DefaultMaxConcurrency      = 50
	DefaultMongoDatabase       = "pdp"
	DefaultMongoCollection     = "products"
	DefaultPostgresTable       = "products"
	DefaultImageWorkers        = 4
)

// EnvPrefix prefixes every environment variable, e.g. PDP_HTTP_TIMEOUT
const EnvPrefix = "PDP"

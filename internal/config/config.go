package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP
	HTTPTimeout         time.Duration
	UserAgent           string
	Proxies             []string
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration

	// Extraction
	BaseURL string

	// Browser Pool
	BrowserPoolSize int
	BrowserHeadless bool
	ChromePath      string
	RenderSettle    time.Duration

	// Caching
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64

	// Batch and downloads
	Concurrency  int
	ImageWorkers int

	// Sinks
	MongoDatabase   string
	MongoCollection string
	S3Region        string
	PostgresTable   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("json_log", DefaultJSONLog)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("proxies", []string{})
	v.SetDefault("retry_max_attempts", DefaultRetryMaxAttempts)
	v.SetDefault("retry_initial_backoff", DefaultRetryInitialBackoff)
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("browser_pool_size", DefaultBrowserPoolSize)
	v.SetDefault("browser_headless", DefaultBrowserHeadless)
	v.SetDefault("chrome_path", "")
	v.SetDefault("render_settle", DefaultRenderSettle)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("cache_max_size_bytes", DefaultCacheMaxSizeBytes)
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("image_workers", DefaultImageWorkers)
	v.SetDefault("mongo_database", DefaultMongoDatabase)
	v.SetDefault("mongo_collection", DefaultMongoCollection)
	v.SetDefault("s3_region", "")
	v.SetDefault("postgres_table", DefaultPostgresTable)
}

// Load builds a Config from defaults, a .env file, an optional config file,
// PDP_* environment variables and finally CLI flags, later sources winning.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, flagString(cmd, "config")); err != nil {
		return nil, err
	}

	applyFlags(v, cmd)

	cfg := &Config{
		LogLevel:            strings.ToLower(v.GetString("log_level")),
		JSONLog:             v.GetBool("json_log"),
		HTTPTimeout:         v.GetDuration("http_timeout"),
		UserAgent:           v.GetString("user_agent"),
		Proxies:             splitList(v.GetStringSlice("proxies")),
		RetryMaxAttempts:    v.GetInt("retry_max_attempts"),
		RetryInitialBackoff: v.GetDuration("retry_initial_backoff"),
		BaseURL:             v.GetString("base_url"),
		BrowserPoolSize:     v.GetInt("browser_pool_size"),
		BrowserHeadless:     v.GetBool("browser_headless"),
		ChromePath:          v.GetString("chrome_path"),
		RenderSettle:        v.GetDuration("render_settle"),
		CacheTTL:            v.GetDuration("cache_ttl"),
		CacheMaxSizeBytes:   v.GetInt64("cache_max_size_bytes"),
		Concurrency:         v.GetInt("concurrency"),
		ImageWorkers:        v.GetInt("image_workers"),
		MongoDatabase:       v.GetString("mongo_database"),
		MongoCollection:     v.GetString("mongo_collection"),
		S3Region:            v.GetString("s3_region"),
		PostgresTable:       v.GetString("postgres_table"),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// readConfigFile reads an explicit file, or ./pdp.{yaml,json,toml} when present
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("pdp")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

// applyFlags overrides keys with flags the user set explicitly
func applyFlags(v *viper.Viper, cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	flags := cmd.Flags()

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	if f := flags.Lookup("verbose"); f != nil && f.Changed && f.Value.String() == "true" {
		v.Set("log_level", "debug")
	}
	if f := flags.Lookup("quiet"); f != nil && f.Changed && f.Value.String() == "true" {
		v.Set("log_level", "error")
	}
}

func flagString(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// splitList accepts both list values and a single comma separated string
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

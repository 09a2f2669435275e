package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "pdp"}
	RegisterFlags(cmd)
	cmd.Flags().Int("concurrency", DefaultConcurrency, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newCommand(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultRetryMaxAttempts, cfg.RetryMaxAttempts)
	assert.Empty(t, cfg.Proxies)
	assert.True(t, cfg.BrowserHeadless)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PDP_HTTP_TIMEOUT", "12s")
	t.Setenv("PDP_PROXIES", "http://p1:8080, http://p2:8080")
	t.Setenv("PDP_MONGO_COLLECTION", "next_products")

	cfg, err := Load(newCommand(t))
	require.NoError(t, err)

	assert.Equal(t, 12*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"http://p1:8080", "http://p2:8080"}, cfg.Proxies)
	assert.Equal(t, "next_products", cfg.MongoCollection)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PDP_USER_AGENT", "from-env")

	cfg, err := Load(newCommand(t,
		"--user-agent", "from-flag",
		"--timeout", "5s",
		"--proxy", "p1:3128,p2:3128",
		"--base-url", "https://www.next.de/",
		"--concurrency", "4",
		"-v",
		"--json",
	))
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"p1:3128", "p2:3128"}, cfg.Proxies)
	assert.Equal(t, "https://www.next.de/", cfg.BaseURL)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.JSONLog)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser_pool_size: 2\ns3_region: eu-west-2\ncache_ttl: 1m\n"), 0o644))

	cfg, err := Load(newCommand(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.BrowserPoolSize)
	assert.Equal(t, "eu-west-2", cfg.S3Region)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(newCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][]string{
		"bad timeout":  {"--timeout", "-1s"},
		"bad base url": {"--base-url", "ftp://x"},
		"bad proxy":    {"--proxy", "ftp://proxy:21"},
		"concurrency":  {"--concurrency", "99"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(newCommand(t, args...))
			assert.Error(t, err)
		})
	}
}

func TestLoad_QuietSetsErrorLevel(t *testing.T) {
	cfg, err := Load(newCommand(t, "-q"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

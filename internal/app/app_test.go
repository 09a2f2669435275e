package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/law-makers/pdp/internal/config"
	"github.com/law-makers/pdp/internal/pipeline"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:            "error",
		HTTPTimeout:         5 * time.Second,
		UserAgent:           "pdp-test",
		RetryMaxAttempts:    1,
		RetryInitialBackoff: 10 * time.Millisecond,
		BaseURL:             config.DefaultBaseURL,
		BrowserPoolSize:     1,
		BrowserHeadless:     true,
		CacheTTL:            time.Minute,
		CacheMaxSizeBytes:   1 << 20,
		ImageWorkers:        2,
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestApplication_Fetcher(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close(context.Background())

	for mode, want := range map[models.FetchMode]string{
		models.ModeStatic: "static",
		models.ModeSPA:    "dynamic",
		models.ModeAuto:   "hybrid",
		"":                "hybrid",
	} {
		f, err := a.Fetcher(mode)
		require.NoError(t, err)
		assert.Equal(t, want, f.Name(), "mode %q", mode)
	}

	_, err = a.Fetcher("browser")
	assert.Error(t, err)
}

func TestApplication_ProxiesConfigureTransport(t *testing.T) {
	cfg := testConfig()
	cfg.Proxies = []string{"http://127.0.0.1:8080"}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	transport, ok := a.HTTPClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.Proxy)

	req := httptest.NewRequest(http.MethodGet, "https://www.next.co.uk/", nil)
	u, err := transport.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", u.Host)
}

func TestApplication_StaticPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<h1 data-testid="product-title">Jersey Polo</h1>
			<span data-testid="product-price">£18</span>
			<span data-testid="product-code">123-456</span>
		</body></html>`))
	}))
	defer srv.Close()

	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close(context.Background())

	p, err := a.Pipeline(models.ModeStatic, nil, nil)
	require.NoError(t, err)

	res := p.Run(context.Background(), srv.URL+"/style/st1/123456")
	require.Equal(t, pipeline.StateDone, res.State)
	require.NoError(t, res.Err)
	assert.Equal(t, "static", res.Engine)
	assert.Equal(t, "Jersey Polo", res.Product.ProductName)
	assert.Equal(t, "18", res.Product.RegularPrice)
	assert.Equal(t, "123-456", res.Product.UniqueID)
}

func TestApplication_OpenSinkUnsupported(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close(context.Background())

	_, err = a.OpenSink(context.Background(), "records.xlsx")
	assert.Error(t, err)
}

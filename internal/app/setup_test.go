package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	var cfg config.Config
	cfg.HTTPServer.Port = 8080
	cfg.Resilience.Timeout = time.Second
	cfg.Resilience.Retry.MaxAttempts = 2
	cfg.Resilience.Retry.InitialBackoff = time.Millisecond
	cfg.Resilience.CircuitBreaker.ConsecutiveFailures = 5
	cfg.Resilience.CircuitBreaker.ErrorRatePercent = 50
	cfg.Resilience.CircuitBreaker.OpenTimeout = time.Second
	cfg.Telemetry.Metrics.Path = "/metrics"
	return &cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_SetupHttpHandler(t *testing.T) {
	// given
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("orders_placed_total 0\n"))
	})
	deps, err := SetupDependencies(testConfig(), nil, messaging.NewLogPublisher(testLogger()), metrics, testLogger())
	require.NoError(t, err)
	handler := SetupHttpHandler(deps)

	testCases := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "health", path: "/healthz", expectedStatus: http.StatusOK},
		{name: "metrics", path: "/metrics", expectedStatus: http.StatusOK, expectedBody: "orders_placed_total"},
		{name: "api", path: "/api/v1/products/categories", expectedStatus: http.StatusOK, expectedBody: "Electronics"},
		{name: "unknown route", path: "/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
			assert.NotEmpty(t, rr.Header().Get(web.XRequestId))
		})
	}
}

func Test_SetupDependencies(t *testing.T) {
	catalogFile := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogFile, []byte(`
products:
  - id: "p1"
    name: "Tea"
    price: "4.50"
    category: "Pantry"
    inStock: true
`), 0o600))

	testCases := []struct {
		name        string
		mutate      func(c *config.Config)
		expectedErr string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "custom default country", mutate: func(c *config.Config) { c.Region.DefaultCountry = "IN" }},
		{name: "catalog file", mutate: func(c *config.Config) { c.Catalog.File = catalogFile }},
		{name: "unknown default country", mutate: func(c *config.Config) { c.Region.DefaultCountry = "ZZ" }, expectedErr: "region registry"},
		{name: "missing catalog file", mutate: func(c *config.Config) { c.Catalog.File = catalogFile + ".missing" }, expectedErr: "catalog"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			cfg := testConfig()
			tc.mutate(cfg)

			// when
			deps, err := SetupDependencies(cfg, nil, messaging.NewLogPublisher(testLogger()), nil, testLogger())

			// then
			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tc.expectedErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, deps.Catalog.All())
			if cfg.Region.DefaultCountry != "" {
				assert.Equal(t, cfg.Region.DefaultCountry, deps.Registry.DefaultCountry().Code)
			}
		})
	}
}

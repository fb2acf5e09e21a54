package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewMeterProvider_ServesCounters(t *testing.T) {
	// given
	metrics, err := NewMeterProvider("storefront-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = metrics.Provider.Shutdown(context.Background()) })

	counter, err := otel.Meter("test").Int64Counter("orders_placed")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	// when
	rr := httptest.NewRecorder()
	metrics.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "orders_placed_total")
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

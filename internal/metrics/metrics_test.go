package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"toko-checkout/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutMetrics(t *testing.T) {
	m := metrics.NewCheckoutMetrics()
	// a second instance must not collide with the first
	_ = metrics.NewCheckoutMetrics()

	m.Checkouts.WithLabelValues(metrics.OutcomeCreated).Inc()
	m.Checkouts.WithLabelValues(metrics.OutcomeCreated).Inc()
	m.Compensations.Add(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Checkouts.WithLabelValues(metrics.OutcomeCreated)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Compensations))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `toko_checkout_total{outcome="created"} 2`)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery(t *testing.T) {
	m := New()

	m.ObserveQuery("fetch_revenue", 5*time.Millisecond, "")
	m.ObserveQuery("fetch_revenue", 7*time.Millisecond, "UNDEFINED_TABLE")
	m.ObserveQuery("fetch_revenue", 9*time.Millisecond, "UNDEFINED_TABLE")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queryFailures.WithLabelValues("fetch_revenue", "UNDEFINED_TABLE")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.queryDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveQuery("fetch_revenue", time.Millisecond, "OTHER")
		m.ObserveRequest("/status", http.MethodGet, "200", time.Millisecond)
		m.ObserveReport("sent")
	})
}

func TestHandlerExposesInstruments(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/invoices", http.MethodGet, "200", 3*time.Millisecond)
	m.ObserveReport("sent")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `dashboard_http_requests_total{method="GET",route="/api/v1/invoices",status="200"} 1`)
	assert.Contains(t, body, `dashboard_invoice_reports_total{outcome="sent"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

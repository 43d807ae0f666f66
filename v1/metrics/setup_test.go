package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsServesRegisteredCollectors(t *testing.T) {
	m := NewMetrics(Config{Address: ":0", ServiceName: "test"})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vecdb_test_events_total",
		Help: "Test counter.",
	})
	m.Registerer.MustRegister(counter)
	counter.Inc()

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "vecdb_test_events_total")
	assert.Contains(t, body, `service="test"`)
}

func TestNewMetricsDefaultCollectors(t *testing.T) {
	m := NewMetrics(Config{Address: ":0", ServiceName: "test", EnableDefaultCollectors: true})

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

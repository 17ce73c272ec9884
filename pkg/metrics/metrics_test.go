package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTPRequest(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/superheroes", http.StatusOK, time.Now())
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/superheroes", http.StatusOK, time.Now())
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/superheroes", http.StatusConflict, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/v1/superheroes", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/api/v1/superheroes", "409")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestTrackInFlight(t *testing.T) {
	m := NewMetrics(Config{})

	done := m.TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestCreateCounterUsesNamespaceAndServiceLabel(t *testing.T) {
	m := NewMetrics(Config{Namespace: "heroes", ServiceName: "api"})

	counter := m.CreateCounter("created_total", "Created records", []string{"kind"})
	counter.WithLabelValues("superhero").Inc()

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `heroes_created_total{kind="superhero",service="api"} 1`), body)
}

func TestDefaultAddress(t *testing.T) {
	m := NewMetrics(Config{})
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)
}

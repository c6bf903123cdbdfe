package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/situacoes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/situacoes/SIT_X", nil))

	count := testutil.CollectAndCount(m.RequestDuration)
	require.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() != "escriba_http_request_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/situacoes/{id}" && labels["status"] == "404" {
				found = true
			}
		}
	}
	assert.True(t, found, "expected route pattern label")
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.SetStoreUp(true)
	m.ObserveRequest("GET", "/", 200, 0)
	h := m.Middleware(http.NotFoundHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStoreUpGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetStoreUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreUp))
	m.SetStoreUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreUp))
}

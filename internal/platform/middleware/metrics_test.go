package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platmetrics "github.com/novacredit/engine/internal/platform/metrics"
)

func TestMetricsMiddlewareRecordsRequestAndRestoresInFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := platmetrics.NewWithRegistry("engine-test", reg)

	h := Metrics("engine-test", m)(http.HandlerFunc(passthrough))

	r := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var total dto.Metric
	require.NoError(t, m.RequestsTotal.WithLabelValues("engine-test", http.MethodGet, "/v1/score", "200").Write(&total))
	assert.Equal(t, float64(1), total.GetCounter().GetValue())

	var inFlight dto.Metric
	require.NoError(t, m.RequestsInFlight.Write(&inFlight))
	assert.Equal(t, float64(0), inFlight.GetGauge().GetValue())
}

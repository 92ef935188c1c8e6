package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/askdb-ai/askdb/pkg/metrics"
)

type Metrics struct {
	apiResponseTime    *prometheus.HistogramVec
	apiErrorCounter    *prometheus.CounterVec
	gatewayRequestTime *prometheus.HistogramVec
	gatewayError       *prometheus.CounterVec
	normalizeFallback  *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:    metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:    metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		gatewayRequestTime: metrics.NewHistogramVec("gateway_request_time", []string{"operation"}),
		gatewayError:       metrics.NewCounterVec("gateway_error", []string{"operation"}),
		normalizeFallback:  metrics.NewCounterVec("result_normalize_fallback", nil),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) GatewayRequestTimer(operation string) *prometheus.Timer {
	return prometheus.NewTimer(m.gatewayRequestTime.WithLabelValues(operation))
}

func (m *Metrics) GatewayErrorInc(operation string) {
	m.gatewayError.WithLabelValues(operation).Inc()
}

func (m *Metrics) NormalizeFallbackInc() {
	m.normalizeFallback.WithLabelValues().Inc()
}

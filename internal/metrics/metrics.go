// Package metrics provides Prometheus instrumentation for backend calls made
// by the API gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors on a private registry.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
	SessionState    *prometheus.GaugeVec

	registry *prometheus.Registry
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsmith_api_requests_total",
				Help: "Backend API calls by operation and HTTP status code.",
			},
			[]string{"op", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsmith_api_request_duration_seconds",
				Help:    "Backend API call latency by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsmith_api_errors_total",
				Help: "Failed backend API calls by operation and kind (transport, auth, client, server).",
			},
			[]string{"op", "kind"},
		),
		SessionState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docsmith_session_state",
				Help: "1 for the session state the client is currently in.",
			},
			[]string{"state"},
		),
		registry: reg,
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.ErrorsTotal)
	reg.MustRegister(m.SessionState)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests, custom exporters).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished call. code is 0 when no response arrived.
func (m *Metrics) ObserveRequest(op string, code int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(op, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) RecordError(op, kind string) {
	m.ErrorsTotal.WithLabelValues(op, kind).Inc()
}

// SetSessionState marks state as current and resets the others.
func (m *Metrics) SetSessionState(state string, all ...string) {
	for _, s := range all {
		m.SessionState.WithLabelValues(s).Set(0)
	}
	m.SessionState.WithLabelValues(state).Set(1)
}

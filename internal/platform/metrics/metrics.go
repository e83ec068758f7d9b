package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
}

// New creates the HTTP metrics on reg (prometheus.DefaultRegisterer in main,
// a fresh registry in tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ubersystem_http_request_duration_seconds",
			Help:    "Latency of admin API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_http_requests_total",
			Help: "Admin API requests by status",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

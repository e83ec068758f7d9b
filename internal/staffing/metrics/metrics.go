package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for shift signups and the possible-jobs cache.
type Metrics struct {
	CacheLookups    *prometheus.CounterVec
	ShiftsAssigned  prometheus.Counter
	ShiftsRejected  *prometheus.CounterVec
	EligibilityLoad prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_possible_jobs_cache_lookups_total",
			Help: "Possible-jobs cache lookups, by result (hit or miss)",
		}, []string{"result"}),
		ShiftsAssigned: f.NewCounter(prometheus.CounterOpts{
			Name: "ubersystem_shifts_assigned_total",
			Help: "Shifts successfully signed up for",
		}),
		ShiftsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_shifts_rejected_total",
			Help: "Shift signups refused, by reason",
		}, []string{"reason"}),
		EligibilityLoad: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ubersystem_possible_jobs_load_seconds",
			Help:    "Time spent computing possible jobs on a cache miss",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncCacheHit() {
	m.CacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) IncCacheMiss() {
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) IncShiftsAssigned() {
	m.ShiftsAssigned.Inc()
}

func (m *Metrics) IncShiftsRejected(reason string) {
	m.ShiftsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveEligibilityLoad(seconds float64) {
	m.EligibilityLoad.Observe(seconds)
}

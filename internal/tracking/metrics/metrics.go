package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the tracking trail and its feed.
type Metrics struct {
	Writes        *prometheus.CounterVec
	WriteFailures *prometheus.CounterVec
	FeedPublished prometheus.Counter
	FeedFailures  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Writes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_tracking_writes_total",
			Help: "Tracking rows written, by model and action",
		}, []string{"model", "action"}),
		WriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_tracking_write_failures_total",
			Help: "Tracking rows that could not be persisted; each one failed its transaction",
		}, []string{"model"}),
		FeedPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "ubersystem_tracking_feed_published_total",
			Help: "Tracking rows published to the feed",
		}),
		FeedFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "ubersystem_tracking_feed_failures_total",
			Help: "Feed publish attempts that failed and will be retried",
		}),
	}
}

func (m *Metrics) IncWrites(model, action string) {
	m.Writes.WithLabelValues(model, action).Inc()
}

func (m *Metrics) IncWriteFailures(model string) {
	m.WriteFailures.WithLabelValues(model).Inc()
}

func (m *Metrics) AddFeedPublished(n int) {
	m.FeedPublished.Add(float64(n))
}

func (m *Metrics) IncFeedFailures() {
	m.FeedFailures.Inc()
}

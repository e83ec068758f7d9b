package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for registration and badge numbering.
type Metrics struct {
	BadgesAllocated   *prometheus.CounterVec
	BadgeShifts       *prometheus.CounterVec
	BadgeLockWait     prometheus.Histogram
	Saves             *prometheus.CounterVec
	PaymentMismatches prometheus.Counter
	PaymentsCollected prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BadgesAllocated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_badges_allocated_total",
			Help: "Badge numbers handed out, by badge type",
		}, []string{"badge_type"}),
		BadgeShifts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_badge_shifts_total",
			Help: "Badge renumbering passes, by badge type",
		}, []string{"badge_type"}),
		BadgeLockWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ubersystem_badge_lock_wait_seconds",
			Help:    "Time spent waiting for the badge lock",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}),
		Saves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ubersystem_registration_saves_total",
			Help: "Attendee and group saves, by model and outcome",
		}, []string{"model", "outcome"}),
		PaymentMismatches: f.NewCounter(prometheus.CounterOpts{
			Name: "ubersystem_payment_mismatches_total",
			Help: "Reconciled payments whose reported total differed from the expected total",
		}),
		PaymentsCollected: f.NewCounter(prometheus.CounterOpts{
			Name: "ubersystem_payments_collected_dollars_total",
			Help: "Dollars newly marked as paid",
		}),
	}
}

func (m *Metrics) IncBadgesAllocated(badgeType string) {
	m.BadgesAllocated.WithLabelValues(badgeType).Inc()
}

func (m *Metrics) IncBadgeShifts(badgeType string) {
	m.BadgeShifts.WithLabelValues(badgeType).Inc()
}

func (m *Metrics) ObserveBadgeLockWait(seconds float64) {
	m.BadgeLockWait.Observe(seconds)
}

func (m *Metrics) IncSaves(model, outcome string) {
	m.Saves.WithLabelValues(model, outcome).Inc()
}

func (m *Metrics) IncPaymentMismatches() {
	m.PaymentMismatches.Inc()
}

func (m *Metrics) AddPaymentsCollected(dollars int) {
	m.PaymentsCollected.Add(float64(dollars))
}

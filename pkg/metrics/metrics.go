package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts checkout outcomes and times the whole workflow.
type CheckoutMetrics struct {
	Outcomes  *prometheus.CounterVec
	LatencyMS prometheus.Histogram
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "outcomes_total",
		Help:      "Checkout attempts by final state and error code.",
	}, []string{"state", "code"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "duration_ms",
		Help:      "Checkout latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	reg.MustRegister(outcomes, latency)
	return &CheckoutMetrics{Outcomes: outcomes, LatencyMS: latency}
}

// Observe is safe to call on a nil receiver.
func (m *CheckoutMetrics) Observe(state, code string, started time.Time) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(state, code).Inc()
	m.LatencyMS.Observe(float64(time.Since(started).Milliseconds()))
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

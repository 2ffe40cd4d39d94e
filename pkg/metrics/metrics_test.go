package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCountsOutcomes(t *testing.T) {
	m := NewCheckoutMetrics(prometheus.NewRegistry())

	m.Observe("Complete", "", time.Now())
	m.Observe("Rejected", "InsufficientStock", time.Now())
	m.Observe("Rejected", "InsufficientStock", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("Complete", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("Rejected", "InsufficientStock")))
}

func TestObserveNilReceiver(t *testing.T) {
	var m *CheckoutMetrics
	assert.NotPanics(t, func() { m.Observe("Complete", "", time.Now()) })
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of the cart submission pipeline.
type CheckoutMetrics struct {
	duration          *prometheus.HistogramVec
	submissions       *prometheus.CounterVec
	allocatorAttempts prometheus.Histogram
	notifyFailures    prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of cart submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Cart submissions by result.",
	}, []string{"result"})
	allocatorAttempts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_allocator_attempts",
		Help:    "Insert attempts needed to allocate a daily order number.",
		Buckets: []float64{1, 2, 3, 4, 5},
	})
	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_notify_failures_total",
		Help: "Order notifications that could not be published.",
	})
	reg.MustRegister(duration, submissions, allocatorAttempts, notifyFailures)
	return &CheckoutMetrics{
		duration:          duration,
		submissions:       submissions,
		allocatorAttempts: allocatorAttempts,
		notifyFailures:    notifyFailures,
	}
}

// ObserveDuration records how long a submission took for the given result.
func (c *CheckoutMetrics) ObserveDuration(result string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(result)).Observe(duration.Seconds())
}

// IncSubmission counts a submission outcome, e.g. "ok" or "conflict".
func (c *CheckoutMetrics) IncSubmission(result string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveAllocatorAttempts records how many inserts a number allocation took.
func (c *CheckoutMetrics) ObserveAllocatorAttempts(attempts int) {
	if c == nil || c.allocatorAttempts == nil {
		return
	}
	c.allocatorAttempts.Observe(float64(attempts))
}

// IncNotifyFailure counts a dropped order notification.
func (c *CheckoutMetrics) IncNotifyFailure() {
	if c == nil || c.notifyFailures == nil {
		return
	}
	c.notifyFailures.Inc()
}

func normalizeLabel(result string) string {
	if result == "" {
		return "unknown"
	}
	return result
}

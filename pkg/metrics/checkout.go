package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records payment attempts made by POS terminals.
type CheckoutMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a recorder that drops every observation.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by payment outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Time from checkout initiation to payment outcome.",
		Buckets: []float64{0.25, 0.5, 1, 1.5, 2, 3, 5, 10, 15},
	}, []string{"outcome"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
	reg.MustRegister(attempts, duration, logins)
	return &CheckoutMetrics{
		attempts: attempts,
		duration: duration,
		logins:   logins,
	}
}

// ObserveCheckout counts one finished payment attempt and its latency.
func (c *CheckoutMetrics) ObserveCheckout(outcome string, elapsed time.Duration) {
	if c == nil || c.attempts == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.attempts.WithLabelValues(label).Inc()
	c.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// IncLogin counts a login attempt; result is "success" or "failure".
func (c *CheckoutMetrics) IncLogin(result string) {
	if c == nil || c.logins == nil {
		return
	}
	c.logins.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

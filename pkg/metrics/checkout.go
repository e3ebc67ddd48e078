package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	OutcomePlaced    = "placed"
	OutcomeEmptyCart = "empty_cart"
	OutcomeFailed    = "failed"
)

// CheckoutMetrics tracks checkout attempts and placed order value.
type CheckoutMetrics struct {
	attempts   *prometheus.CounterVec
	orderValue prometheus.Histogram
	orderItems prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_value",
		Help:    "Total value of placed orders.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	orderItems := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_lines",
		Help:    "Distinct products per placed order.",
		Buckets: prometheus.LinearBuckets(1, 2, 8),
	})
	reg.MustRegister(attempts, orderValue, orderItems)
	return &CheckoutMetrics{attempts: attempts, orderValue: orderValue, orderItems: orderItems}
}

// Placed records a successfully placed order.
func (c *CheckoutMetrics) Placed(total decimal.Decimal, lines int) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(OutcomePlaced).Inc()
	c.orderValue.Observe(total.InexactFloat64())
	c.orderItems.Observe(float64(lines))
}

// Rejected records a checkout that did not produce an order.
func (c *CheckoutMetrics) Rejected(outcome string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

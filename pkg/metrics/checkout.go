package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "minishop"

// CheckoutMetrics records storefront order activity.
type CheckoutMetrics struct {
	ordersCreated *prometheus.CounterVec
	orderTotal    *prometheus.HistogramVec
	tierApplied   *prometheus.CounterVec
	upsellItems   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders created through the storefront.",
	}, []string{"tenant"})
	orderTotal := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total",
		Help:      "Order totals in store currency at creation time.",
		Buckets:   prometheus.ExponentialBuckets(1000, 2.5, 10),
	}, []string{"tenant"})
	tierApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offer_tier_applied_total",
		Help:      "Order lines priced with a quantity offer tier.",
	}, []string{"tenant"})
	upsellItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upsell_items_added_total",
		Help:      "Post-purchase upsell items appended to orders.",
	}, []string{"tenant"})
	reg.MustRegister(ordersCreated, orderTotal, tierApplied, upsellItems)
	return &CheckoutMetrics{
		ordersCreated: ordersCreated,
		orderTotal:    orderTotal,
		tierApplied:   tierApplied,
		upsellItems:   upsellItems,
	}
}

// ObserveOrder records a created order and its total.
func (m *CheckoutMetrics) ObserveOrder(tenant string, total decimal.Decimal) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	label := normalizeLabel(tenant)
	m.ordersCreated.WithLabelValues(label).Inc()
	m.orderTotal.WithLabelValues(label).Observe(total.InexactFloat64())
}

// IncTierApplied counts lines that received a tier discount.
func (m *CheckoutMetrics) IncTierApplied(tenant string, lines int) {
	if m == nil || m.tierApplied == nil || lines <= 0 {
		return
	}
	m.tierApplied.WithLabelValues(normalizeLabel(tenant)).Add(float64(lines))
}

// IncUpsellItem counts an accepted upsell.
func (m *CheckoutMetrics) IncUpsellItem(tenant string) {
	if m == nil || m.upsellItems == nil {
		return
	}
	m.upsellItems.WithLabelValues(normalizeLabel(tenant)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// Package metrics exposes Prometheus collectors for the payment lifecycle.
// Services record through the Recorder interface so tests can pass Noop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the narrow recording contract the services depend on.
type Recorder interface {
	PaymentCreated(method, currency string)
	PaymentSettled(status, method string)
	RefundProcessed(origin, currency string, amount float64)
	DisputeOpened(reason string)
	DisputeResolved(decision string)
	WebhookDelivery(event, outcome string)
	WebhookDropped()
	ObserveSettlement(seconds float64)
}

// Noop discards all recordings. Used in tests.
type Noop struct{}

func (Noop) PaymentCreated(string, string)          {}
func (Noop) PaymentSettled(string, string)          {}
func (Noop) RefundProcessed(string, string, float64) {}
func (Noop) DisputeOpened(string)                   {}
func (Noop) DisputeResolved(string)                 {}
func (Noop) WebhookDelivery(string, string)         {}
func (Noop) WebhookDropped()                        {}
func (Noop) ObserveSettlement(float64)              {}

// Collector is the Prometheus-backed Recorder. A single instance is created
// at startup; promauto registers against the default registry.
type Collector struct {
	paymentsCreatedTotal  *prometheus.CounterVec
	paymentsSettledTotal  *prometheus.CounterVec
	refundsTotal          *prometheus.CounterVec
	refundAmountTotal     *prometheus.CounterVec
	disputesOpenedTotal   *prometheus.CounterVec
	disputesResolvedTotal *prometheus.CounterVec
	webhookDeliveries     *prometheus.CounterVec
	webhookQueueDropped   prometheus.Counter
	settlementDuration    prometheus.Histogram
}

// NewCollector registers and returns the lifecycle collectors.
func NewCollector() *Collector {
	return &Collector{
		paymentsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zeropay_payments_created_total",
				Help: "Payment orders created",
			},
			[]string{"method", "currency"},
		),
		paymentsSettledTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zeropay_payments_settled_total",
				Help: "Payments settled, by terminal status",
			},
			[]string{"status", "method"},
		),
		refundsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zeropay_refunds_total",
				Help: "Refunds processed, by origin (merchant or dispute)",
			},
			[]string{"origin"},
		),
		refundAmountTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zeropay_refund_amount_total",
				Help: "Total refunded amount",
			},
			[]string{"currency"},
		),
		disputesOpenedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zeropay_disputes_opened_total",
				Help: "Disputes opened, by reason",
			},
			[]string{"reason"},
		),
		disputesResolvedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zeropay_disputes_resolved_total",
				Help: "Disputes resolved, by decision",
			},
			[]string{"decision"},
		),
		webhookDeliveries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zeropay_webhook_deliveries_total",
				Help: "Webhook delivery attempts, by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		webhookQueueDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "zeropay_webhook_queue_dropped_total",
				Help: "Webhook jobs dropped because the queue was full",
			},
		),
		settlementDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "zeropay_settlement_duration_seconds",
				Help:    "Time spent settling a pending payment",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (c *Collector) PaymentCreated(method, currency string) {
	c.paymentsCreatedTotal.WithLabelValues(method, currency).Inc()
}

func (c *Collector) PaymentSettled(status, method string) {
	c.paymentsSettledTotal.WithLabelValues(status, method).Inc()
}

func (c *Collector) RefundProcessed(origin, currency string, amount float64) {
	c.refundsTotal.WithLabelValues(origin).Inc()
	c.refundAmountTotal.WithLabelValues(currency).Add(amount)
}

func (c *Collector) DisputeOpened(reason string) {
	c.disputesOpenedTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) DisputeResolved(decision string) {
	c.disputesResolvedTotal.WithLabelValues(decision).Inc()
}

func (c *Collector) WebhookDelivery(event, outcome string) {
	c.webhookDeliveries.WithLabelValues(event, outcome).Inc()
}

func (c *Collector) WebhookDropped() {
	c.webhookQueueDropped.Inc()
}

func (c *Collector) ObserveSettlement(seconds float64) {
	c.settlementDuration.Observe(seconds)
}

// Package events defines the integration events published on lifecycle
// transitions and the publisher contract they go through. Publishing is
// best-effort: a failed publish is logged by the caller, never returned to
// the API client.
package events

import "time"

// Topics.
const (
	TopicPayments = "zeropay.payments"
	TopicDisputes = "zeropay.disputes"
)

// Payment event types.
const (
	PaymentSettled  = "payment.settled"
	PaymentRefunded = "payment.refunded"
)

// Dispute event types.
const (
	DisputeOpened   = "dispute.opened"
	DisputeResolved = "dispute.resolved"
)

// PaymentEvent describes a transaction status transition.
type PaymentEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	MerchantID uint      `json:"merchantId"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Method     string    `json:"method"`
	OccurredAt time.Time `json:"occurredAt"`
}

// DisputeEvent describes a dispute lifecycle transition.
type DisputeEvent struct {
	Type       string    `json:"type"`
	DisputeID  uint      `json:"disputeId"`
	OrderID    string    `json:"orderId"`
	MerchantID uint      `json:"merchantId"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason"`
	Decision   string    `json:"decision,omitempty"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher is the outbound event contract.
type Publisher interface {
	PublishPayment(event PaymentEvent) error
	PublishDispute(event DisputeEvent) error
	Close() error
}

// NoopPublisher drops all events. Used in tests and when no broker is
// configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPayment(PaymentEvent) error { return nil }
func (NoopPublisher) PublishDispute(DisputeEvent) error { return nil }
func (NoopPublisher) Close() error                      { return nil }

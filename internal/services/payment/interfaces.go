package payment

import (
	"context"

	"zeropay/internal/events"
	"zeropay/internal/models"
)

// Service is the payment lifecycle contract: create a pending order, settle
// it exactly once, refund a settled one at most once.
type Service interface {
	Create(ctx context.Context, merchantID uint, req CreateRequest) (*models.Transaction, error)
	Verify(ctx context.Context, orderID string) (*models.Transaction, error)
	Refund(ctx context.Context, req RefundRequest) (*models.Transaction, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)
	List(ctx context.Context, merchantID uint, status string, limit int) ([]models.Transaction, error)

	// HandleDisputeResolved consumes dispute resolution events and issues
	// the automatic refund when the customer won.
	HandleDisputeResolved(ctx context.Context, event events.DisputeEvent)
}

// CreateRequest carries the checkout input for a new payment order.
type CreateRequest struct {
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	CustomerEmail string  `json:"customerEmail"`
}

// Refund origins, used for metrics and audit.
const (
	RefundOriginMerchant = "merchant"
	RefundOriginDispute  = "dispute"
)

// RefundRequest carries a refund instruction against a settled order.
type RefundRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
	Reason  string  `json:"reason"`
	Origin  string  `json:"-"`
}

// Notifier schedules webhook fan-out. Implementations must not block.
type Notifier interface {
	Enqueue(merchantID uint, event string, tx models.Transaction)
}

// CustomerMailer sends best-effort customer emails.
type CustomerMailer interface {
	PaymentSucceeded(tx *models.Transaction)
	RefundIssued(tx *models.Transaction, amount float64, reason string)
}

// Cache is the optional read-through cache for order lookups.
type Cache interface {
	GetTransaction(ctx context.Context, orderID string) (*models.Transaction, bool, error)
	CacheTransaction(ctx context.Context, tx *models.Transaction) error
	InvalidateTransaction(ctx context.Context, orderID string) error
}

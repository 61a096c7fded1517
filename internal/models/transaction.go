package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payment statuses. Transitions are monotonic: pending may become success or
// failed, and only success may become refunded.
const (
	StatusPending  = "pending"
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

// Payment methods accepted at checkout.
const (
	MethodCard       = "card"
	MethodUPI        = "upi"
	MethodWallet     = "wallet"
	MethodNetbanking = "netbanking"
)

// Transaction is the ledger record of a single payment attempt.
// Amount and currency are fixed at creation; refund fields are populated
// only when Status is refunded.
type Transaction struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	OrderID        string  `gorm:"uniqueIndex;not null" json:"orderId"`
	MerchantID     uint    `gorm:"index;not null" json:"merchantId"`
	Amount         float64 `gorm:"not null" json:"amount"`
	Currency       string  `gorm:"not null;default:'INR'" json:"currency"`
	Method         string  `gorm:"not null" json:"method"`
	Status         string  `gorm:"not null;default:'pending'" json:"status"`
	CustomerEmail  string  `gorm:"not null" json:"customerEmail"`
	IsTestMode     bool    `gorm:"default:false" json:"isTestMode"`
	HasDispute     bool    `gorm:"default:false" json:"hasDispute"`
	RefundedAmount float64 `gorm:"default:0" json:"refundedAmount"`
	RefundReason   string  `gorm:"default:''" json:"refundReason"`
	RefundDate     *time.Time `json:"refundDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewOrderID generates a merchant-visible order reference.
func NewOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidMethod reports whether m is one of the accepted payment methods.
func ValidMethod(m string) bool {
	switch m {
	case MethodCard, MethodUPI, MethodWallet, MethodNetbanking:
		return true
	}
	return false
}

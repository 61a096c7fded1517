package models

import "time"

// Dispute statuses. A dispute opens against a successful transaction, moves
// to under_review once the merchant responds, and is closed by an admin as
// won or lost. "resolved" is a legacy stored value that no operation
// produces; it is still treated as closed wherever closedness is checked.
const (
	DisputeOpen        = "open"
	DisputeUnderReview = "under_review"
	DisputeResolved    = "resolved"
	DisputeWon         = "won"
	DisputeLost        = "lost"
)

// Dispute reasons, mirroring the card-network chargeback categories.
const (
	ReasonFraudulent          = "fraudulent"
	ReasonUnrecognized        = "unrecognized"
	ReasonDuplicate           = "duplicate"
	ReasonProductNotReceived  = "product_not_received"
	ReasonProductUnacceptable = "product_unacceptable"
	ReasonCreditNotProcessed  = "credit_not_processed"
	ReasonOther               = "other"
)

// Resolution decisions.
const (
	DecisionMerchant = "merchant"
	DecisionCustomer = "customer"
)

// Dispute is a chargeback-like record referencing exactly one transaction.
// OrderID and Amount are denormalized from the transaction for display.
type Dispute struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	TransactionID   uint    `gorm:"uniqueIndex;not null" json:"transactionId"`
	MerchantID      uint    `gorm:"index;not null" json:"merchantId"`
	OrderID         string  `gorm:"not null" json:"orderId"`
	Amount          float64 `gorm:"not null" json:"amount"`
	Reason          string  `gorm:"not null" json:"reason"`
	Status          string  `gorm:"not null;default:'open'" json:"status"`
	CustomerEmail   string  `gorm:"not null" json:"customerEmail"`
	CustomerMessage string  `json:"customerMessage"`

	MerchantResponse string `json:"merchantResponse,omitempty"`
	Evidence         *Evidence `gorm:"embedded;embeddedPrefix:evidence_" json:"evidence,omitempty"`
	Resolution       *Resolution `gorm:"embedded;embeddedPrefix:resolution_" json:"resolution,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Evidence is the bundle a merchant submits when contesting a dispute.
type Evidence struct {
	Description      string     `json:"description"`
	Documents        StringList `gorm:"type:jsonb" json:"documents"`
	ShippingTracking string     `json:"shippingTracking"`
	RefundPolicy     string     `json:"refundPolicy"`
}

// Resolution records the admin decision that closed a dispute.
type Resolution struct {
	Decision   string     `json:"decision"`
	ResolvedBy string     `json:"resolvedBy"`
	ResolvedAt *time.Time `json:"resolvedAt"`
	Notes      string     `json:"notes"`
}

// Closed reports whether the dispute can no longer be modified.
func (d *Dispute) Closed() bool {
	switch d.Status {
	case DisputeResolved, DisputeWon, DisputeLost:
		return true
	}
	return false
}

// ValidReason reports whether r is a recognized dispute reason.
func ValidReason(r string) bool {
	switch r {
	case ReasonFraudulent, ReasonUnrecognized, ReasonDuplicate,
		ReasonProductNotReceived, ReasonProductUnacceptable,
		ReasonCreditNotProcessed, ReasonOther:
		return true
	}
	return false
}

package models

import "time"

// Audit actions recorded for merchant-visible history.
const (
	AuditDisputeResponse = "DISPUTE_RESPONSE_SUBMITTED"
	AuditDisputeResolved = "DISPUTE_RESOLVED"
	AuditKeysRegenerated = "API_KEYS_REGENERATED"
)

// AuditLog is an append-only record of sensitive merchant actions.
type AuditLog struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	MerchantID uint   `gorm:"index;not null" json:"merchantId"`
	Action     string `gorm:"not null" json:"action"`
	Details    string `json:"details"`
	IPAddress  string `json:"ipAddress"`
	UserAgent  string `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
}

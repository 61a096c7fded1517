package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Merchant is the owning account for transactions, disputes and webhooks.
type Merchant struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	PublicKey    string `gorm:"uniqueIndex;not null" json:"publicKey"`
	SecretKey    string `gorm:"uniqueIndex;not null" json:"-"`
	SandboxMode  bool   `gorm:"default:true" json:"sandboxMode"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewPublicKey generates a merchant-facing publishable key.
func NewPublicKey() string {
	return "pk_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewSecretKey generates the secret key used for API authentication.
func NewSecretKey() string {
	return "sk_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

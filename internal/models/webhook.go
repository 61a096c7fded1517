package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Webhook events a merchant may subscribe to.
const (
	EventPaymentSuccess  = "payment.success"
	EventPaymentFailed   = "payment.failed"
	EventPaymentRefunded = "payment.refunded"
)

// Webhook is a merchant endpoint registration. Created and deleted by
// merchant action; otherwise immutable.
type Webhook struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	MerchantID uint       `gorm:"index;not null" json:"merchantId"`
	URL        string     `gorm:"not null" json:"url"`
	Secret     string     `gorm:"not null" json:"secret"`
	Events     StringList `gorm:"type:jsonb;not null" json:"events"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// SubscribedTo reports whether the registration covers the given event.
func (w *Webhook) SubscribedTo(event string) bool {
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

// NewWebhookSecret generates a signing secret for a fresh registration.
func NewWebhookSecret() string {
	return "whsec_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidEvent reports whether e is a recognized webhook event.
func ValidEvent(e string) bool {
	switch e {
	case EventPaymentSuccess, EventPaymentFailed, EventPaymentRefunded:
		return true
	}
	return false
}

// StringList stores a slice of strings as a jsonb column.
type StringList []string

// Value implements the driver.Valuer interface.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

// Scan implements the sql.Scanner interface.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

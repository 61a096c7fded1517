package repositories

import (
	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"

	"gorm.io/gorm"
)

// WebhookRepository is the persistence contract for webhook registrations.
type WebhookRepository interface {
	Create(w *models.Webhook) error
	FindByMerchant(merchantID uint) ([]models.Webhook, error)
	FindSubscribed(merchantID uint, event string) ([]models.Webhook, error)
	Delete(id, merchantID uint) error
}

type webhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a gorm-backed webhook repository.
func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &webhookRepository{db: db}
}

func (r *webhookRepository) Create(w *models.Webhook) error {
	return r.db.Create(w).Error
}

func (r *webhookRepository) FindByMerchant(merchantID uint) ([]models.Webhook, error) {
	var hooks []models.Webhook
	err := r.db.Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&hooks).Error
	return hooks, err
}

// FindSubscribed returns the merchant's registrations subscribed to event.
// The events column is jsonb, so subscription filtering happens in Go; a
// merchant has at most a handful of registrations.
func (r *webhookRepository) FindSubscribed(merchantID uint, event string) ([]models.Webhook, error) {
	hooks, err := r.FindByMerchant(merchantID)
	if err != nil {
		return nil, err
	}
	subscribed := hooks[:0]
	for _, h := range hooks {
		if h.SubscribedTo(event) {
			subscribed = append(subscribed, h)
		}
	}
	return subscribed, nil
}

func (r *webhookRepository) Delete(id, merchantID uint) error {
	res := r.db.Where("id = ? AND merchant_id = ?", id, merchantID).
		Delete(&models.Webhook{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrWebhookNotFound
	}
	return nil
}

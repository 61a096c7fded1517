package webhook

import (
	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"
	"zeropay/internal/repositories"
	"zeropay/internal/validation"
)

// Service manages webhook registrations. Registrations are created and
// deleted by merchant action and are otherwise immutable.
type Service struct {
	repo repositories.WebhookRepository
}

// NewService creates a webhook registration service.
func NewService(repo repositories.WebhookRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a registration with a fresh signing secret.
func (s *Service) Register(merchantID uint, url string, eventNames []string) (*models.Webhook, error) {
	v := validation.New()
	v.URL("url", url)
	if !v.Valid() {
		return nil, domainerrors.ErrInvalidWebhookURL
	}
	if len(eventNames) == 0 {
		return nil, domainerrors.ErrInvalidWebhookEvent
	}
	for _, e := range eventNames {
		if !models.ValidEvent(e) {
			return nil, domainerrors.ErrInvalidWebhookEvent
		}
	}

	hook := &models.Webhook{
		MerchantID: merchantID,
		URL:        url,
		Secret:     models.NewWebhookSecret(),
		Events:     models.StringList(eventNames),
	}
	if err := s.repo.Create(hook); err != nil {
		return nil, err
	}
	return hook, nil
}

// List returns all registrations for a merchant.
func (s *Service) List(merchantID uint) ([]models.Webhook, error) {
	return s.repo.FindByMerchant(merchantID)
}

// Delete removes a merchant's registration.
func (s *Service) Delete(merchantID, webhookID uint) error {
	return s.repo.Delete(webhookID, merchantID)
}

package webhook

import (
	"strings"
	"testing"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("valid registration gets a signing secret", func(t *testing.T) {
		svc := NewService(&stubRepo{})
		hook, err := svc.Register(1, "https://example.com/hooks", []string{
			models.EventPaymentSuccess, models.EventPaymentRefunded,
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hook.Secret, "whsec_"))
		assert.Equal(t, uint(1), hook.MerchantID)
		assert.True(t, hook.SubscribedTo(models.EventPaymentSuccess))
		assert.True(t, hook.SubscribedTo(models.EventPaymentRefunded))
		assert.False(t, hook.SubscribedTo(models.EventPaymentFailed))
	})

	t.Run("rejects a non-http URL", func(t *testing.T) {
		svc := NewService(&stubRepo{})
		_, err := svc.Register(1, "ftp://example.com/hooks", []string{models.EventPaymentSuccess})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidWebhookURL)
	})

	t.Run("rejects an unknown event", func(t *testing.T) {
		svc := NewService(&stubRepo{})
		_, err := svc.Register(1, "https://example.com/hooks", []string{"payment.created"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidWebhookEvent)
	})

	t.Run("rejects an empty event list", func(t *testing.T) {
		svc := NewService(&stubRepo{})
		_, err := svc.Register(1, "https://example.com/hooks", nil)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidWebhookEvent)
	})
}

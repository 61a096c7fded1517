// Package notification sends customer and merchant emails. Delivery is
// best-effort: the payment and dispute flows never wait on it and never see
// its failures.
package notification

import (
	"context"
	"fmt"
	"log"

	"zeropay/internal/models"
)

// Mailer is the outbound email contract.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes emails to the process log instead of sending them.
// The default in development and sandbox mode.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("email to %s: %s", to, subject)
	return nil
}

// Service formats and dispatches lifecycle emails through a Mailer.
type Service struct {
	mailer Mailer
}

// NewService creates a notification service.
func NewService(mailer Mailer) *Service {
	return &Service{mailer: mailer}
}

func (s *Service) send(to, subject, body string) {
	go func() {
		if err := s.mailer.Send(context.Background(), to, subject, body); err != nil {
			log.Printf("failed to send email to %s: %v", to, err)
		}
	}()
}

// PaymentSucceeded notifies the customer that their payment went through.
func (s *Service) PaymentSucceeded(tx *models.Transaction) {
	subject := fmt.Sprintf("Payment confirmed for %s", tx.OrderID)
	body := fmt.Sprintf("Your payment of %.2f %s for order %s was successful.",
		tx.Amount, tx.Currency, tx.OrderID)
	s.send(tx.CustomerEmail, subject, body)
}

// RefundIssued notifies the customer that a refund was processed.
func (s *Service) RefundIssued(tx *models.Transaction, amount float64, reason string) {
	subject := fmt.Sprintf("Refund issued for %s", tx.OrderID)
	body := fmt.Sprintf("A refund of %.2f %s was issued for order %s. Reason: %s",
		amount, tx.Currency, tx.OrderID, reason)
	s.send(tx.CustomerEmail, subject, body)
}

// DisputeOpened notifies the merchant that a customer opened a dispute.
func (s *Service) DisputeOpened(merchant *models.Merchant, d *models.Dispute) {
	subject := fmt.Sprintf("New dispute on order %s", d.OrderID)
	body := fmt.Sprintf("Hi %s, a dispute (%s) was opened on order %s for %.2f. Customer says: %s",
		merchant.Name, d.Reason, d.OrderID, d.Amount, d.CustomerMessage)
	s.send(merchant.Email, subject, body)
}

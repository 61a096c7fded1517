package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/events"
	"zeropay/internal/metrics"
	"zeropay/internal/models"
	"zeropay/internal/repositories"
	"zeropay/internal/validation"
)

type service struct {
	repo      repositories.TransactionRepository
	merchants repositories.MerchantRepository
	cache     Cache
	policy    SettlementPolicy
	notifier  Notifier
	mailer    CustomerMailer
	publisher events.Publisher
	rec       metrics.Recorder
}

// NewService creates the payment service. cache may be nil.
func NewService(
	repo repositories.TransactionRepository,
	merchants repositories.MerchantRepository,
	cache Cache,
	policy SettlementPolicy,
	notifier Notifier,
	mailer CustomerMailer,
	publisher events.Publisher,
	rec metrics.Recorder,
) Service {
	if repo == nil {
		panic("transaction repository is required")
	}
	if merchants == nil {
		panic("merchant repository is required")
	}
	if policy == nil {
		policy = DefaultPolicy()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &service{
		repo:      repo,
		merchants: merchants,
		cache:     cache,
		policy:    policy,
		notifier:  notifier,
		mailer:    mailer,
		publisher: publisher,
		rec:       rec,
	}
}

// Create validates checkout input and opens a pending transaction with a
// fresh order reference.
func (s *service) Create(ctx context.Context, merchantID uint, req CreateRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}
	if !models.ValidMethod(req.Method) {
		return nil, domainerrors.ErrInvalidMethod
	}
	if !validation.IsEmail(req.CustomerEmail) {
		return nil, domainerrors.ErrInvalidEmail
	}

	merchant, err := s.merchants.FindByID(merchantID)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		OrderID:       models.NewOrderID(),
		MerchantID:    merchant.ID,
		Amount:        req.Amount,
		Currency:      "INR",
		Method:        req.Method,
		Status:        models.StatusPending,
		CustomerEmail: req.CustomerEmail,
		IsTestMode:    merchant.SandboxMode,
	}
	if err := s.repo.Create(tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.rec.PaymentCreated(tx.Method, tx.Currency)
	return tx, nil
}

// Verify settles a pending transaction to success or failed. The settlement
// decision is made exactly once: the compare-and-set on status means a
// concurrent or repeated verify observes ErrAlreadyProcessed instead of
// re-resolving. Webhook fan-out and email are scheduled after the durable
// write and never delay or fail the response.
func (s *service) Verify(ctx context.Context, orderID string) (*models.Transaction, error) {
	start := time.Now()

	tx, err := s.repo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.StatusPending {
		return nil, domainerrors.ErrAlreadyProcessed
	}

	outcome := s.policy.Settle(tx)
	ok, err := s.repo.UpdateStatusIf(orderID, models.StatusPending, outcome, nil)
	if err != nil {
		return nil, fmt.Errorf("settle transaction: %w", err)
	}
	if !ok {
		// Another request won the transition between our read and write.
		return nil, domainerrors.ErrAlreadyProcessed
	}
	tx.Status = outcome

	s.invalidate(ctx, orderID)
	s.rec.PaymentSettled(outcome, tx.Method)
	s.rec.ObserveSettlement(time.Since(start).Seconds())

	event := models.EventPaymentFailed
	if outcome == models.StatusSuccess {
		event = models.EventPaymentSuccess
	}
	s.afterTransition(tx, event)

	if outcome == models.StatusSuccess && s.mailer != nil {
		s.mailer.PaymentSucceeded(tx)
	}
	return tx, nil
}

// Refund moves a successful transaction to refunded, recording amount,
// reason and date. A transaction refunds at most once: the status guard and
// the compare-and-set both fail a second attempt with ErrAlreadyRefunded.
func (s *service) Refund(ctx context.Context, req RefundRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	tx, err := s.repo.FindByOrderID(req.OrderID)
	if err != nil {
		return nil, err
	}
	switch tx.Status {
	case models.StatusSuccess:
	case models.StatusRefunded:
		return nil, domainerrors.ErrAlreadyRefunded
	default:
		return nil, domainerrors.ErrNotRefundable
	}
	if req.Amount > tx.Amount {
		return nil, domainerrors.ErrRefundExceedsAmount
	}

	now := time.Now()
	ok, err := s.repo.UpdateStatusIf(req.OrderID, models.StatusSuccess, models.StatusRefunded,
		repositories.TransactionUpdate{
			"refunded_amount": req.Amount,
			"refund_reason":   req.Reason,
			"refund_date":     now,
		})
	if err != nil {
		return nil, fmt.Errorf("refund transaction: %w", err)
	}
	if !ok {
		return nil, domainerrors.ErrAlreadyRefunded
	}
	tx.Status = models.StatusRefunded
	tx.RefundedAmount = req.Amount
	tx.RefundReason = req.Reason
	tx.RefundDate = &now

	s.invalidate(ctx, req.OrderID)
	origin := req.Origin
	if origin == "" {
		origin = RefundOriginMerchant
	}
	s.rec.RefundProcessed(origin, tx.Currency, req.Amount)

	s.afterTransition(tx, models.EventPaymentRefunded)
	if s.mailer != nil {
		s.mailer.RefundIssued(tx, req.Amount, req.Reason)
	}
	return tx, nil
}

// HandleDisputeResolved issues the automatic refund when a dispute closes in
// the customer's favor. A transaction already refunded (or failed) makes
// this a silent no-op so dispute resolution stays idempotent for the admin.
func (s *service) HandleDisputeResolved(ctx context.Context, event events.DisputeEvent) {
	if event.Decision != models.DecisionCustomer {
		return
	}
	reason := fmt.Sprintf("Dispute resolved in favor of customer: %s", event.Reason)
	_, err := s.Refund(ctx, RefundRequest{
		OrderID: event.OrderID,
		Amount:  event.Amount,
		Reason:  reason,
		Origin:  RefundOriginDispute,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyRefunded) || errors.Is(err, domainerrors.ErrNotRefundable) {
			return
		}
		log.Printf("dispute refund failed for %s: %v", event.OrderID, err)
	}
}

// GetByOrderID returns a transaction, preferring the cache.
func (s *service) GetByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	if s.cache != nil {
		if tx, found, err := s.cache.GetTransaction(ctx, orderID); err == nil && found {
			return tx, nil
		}
	}
	tx, err := s.repo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.CacheTransaction(ctx, tx); err != nil {
			log.Printf("failed to cache transaction %s: %v", orderID, err)
		}
	}
	return tx, nil
}

// List returns a merchant's transactions, optionally filtered by status.
func (s *service) List(ctx context.Context, merchantID uint, status string, limit int) ([]models.Transaction, error) {
	return s.repo.FindByMerchant(merchantID, status, limit)
}

func (s *service) invalidate(ctx context.Context, orderID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTransaction(ctx, orderID); err != nil {
		log.Printf("failed to invalidate transaction %s: %v", orderID, err)
	}
}

// afterTransition runs the side effects that follow a durable status write:
// webhook fan-out and the integration event. Both are best-effort.
func (s *service) afterTransition(tx *models.Transaction, webhookEvent string) {
	if s.notifier != nil {
		s.notifier.Enqueue(tx.MerchantID, webhookEvent, *tx)
	}
	eventType := events.PaymentSettled
	if tx.Status == models.StatusRefunded {
		eventType = events.PaymentRefunded
	}
	if err := s.publisher.PublishPayment(events.PaymentEvent{
		Type:       eventType,
		OrderID:    tx.OrderID,
		MerchantID: tx.MerchantID,
		Status:     tx.Status,
		Amount:     tx.Amount,
		Currency:   tx.Currency,
		Method:     tx.Method,
		OccurredAt: time.Now(),
	}); err != nil {
		log.Printf("failed to publish payment event for %s: %v", tx.OrderID, err)
	}
}

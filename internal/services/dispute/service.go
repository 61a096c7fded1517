// Package dispute implements the chargeback lifecycle: a customer opens a
// dispute against a successful payment, the merchant responds with evidence,
// an admin closes it as won or lost. A customer win hands a resolution event
// to the refund handler rather than touching the payment ledger directly, so
// the already-refunded no-op guard lives in one place.
package dispute

import (
	"context"
	"fmt"
	"log"
	"time"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/events"
	"zeropay/internal/metrics"
	"zeropay/internal/models"
	"zeropay/internal/repositories"
)

// ResolutionHandler consumes dispute resolution events. The payment service
// implements it to issue the automatic refund on a customer win.
type ResolutionHandler interface {
	HandleDisputeResolved(ctx context.Context, event events.DisputeEvent)
}

// MerchantMailer sends best-effort merchant notifications.
type MerchantMailer interface {
	DisputeOpened(merchant *models.Merchant, d *models.Dispute)
}

// OpenRequest is the customer-side input for a new dispute.
type OpenRequest struct {
	TransactionID   uint   `json:"transactionId"`
	Reason          string `json:"reason"`
	CustomerMessage string `json:"customerMessage"`
}

// RespondRequest is the merchant evidence submission.
type RespondRequest struct {
	MerchantResponse string           `json:"merchantResponse"`
	Evidence         *models.Evidence `json:"evidence"`
}

// ResolveRequest is the admin decision.
type ResolveRequest struct {
	Decision   string `json:"decision"`
	Notes      string `json:"notes"`
	ResolvedBy string `json:"-"`
}

// Service coordinates the dispute ledger with the transaction flag and the
// refund handler.
type Service struct {
	repo      repositories.DisputeRepository
	txRepo    repositories.TransactionRepository
	merchants repositories.MerchantRepository
	audit     repositories.AuditLogRepository
	mailer    MerchantMailer
	handler   ResolutionHandler
	publisher events.Publisher
	rec       metrics.Recorder
}

// NewService creates the dispute service.
func NewService(
	repo repositories.DisputeRepository,
	txRepo repositories.TransactionRepository,
	merchants repositories.MerchantRepository,
	audit repositories.AuditLogRepository,
	mailer MerchantMailer,
	handler ResolutionHandler,
	publisher events.Publisher,
	rec metrics.Recorder,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &Service{
		repo:      repo,
		txRepo:    txRepo,
		merchants: merchants,
		audit:     audit,
		mailer:    mailer,
		handler:   handler,
		publisher: publisher,
		rec:       rec,
	}
}

// Open creates a dispute against a successful transaction. The transaction's
// dispute flag is claimed with a compare-and-set, so two concurrent opens
// cannot both create a dispute for the same transaction.
func (s *Service) Open(ctx context.Context, merchantID uint, req OpenRequest) (*models.Dispute, error) {
	if !models.ValidReason(req.Reason) {
		return nil, domainerrors.ErrInvalidDisputeReason
	}
	if req.CustomerMessage == "" {
		return nil, domainerrors.Validationf("MISSING_MESSAGE", "customer message is required")
	}

	tx, err := s.txRepo.FindByID(req.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.MerchantID != merchantID {
		return nil, domainerrors.ErrTransactionNotFound
	}
	if tx.Status != models.StatusSuccess {
		return nil, domainerrors.ErrDisputeNotDisputable
	}
	if tx.HasDispute {
		return nil, domainerrors.ErrDisputeExists
	}

	claimed, err := s.txRepo.SetDisputeFlag(tx.ID)
	if err != nil {
		return nil, fmt.Errorf("flag transaction: %w", err)
	}
	if !claimed {
		return nil, domainerrors.ErrDisputeExists
	}

	d := &models.Dispute{
		TransactionID:   tx.ID,
		MerchantID:      tx.MerchantID,
		OrderID:         tx.OrderID,
		Amount:          tx.Amount,
		Reason:          req.Reason,
		Status:          models.DisputeOpen,
		CustomerEmail:   tx.CustomerEmail,
		CustomerMessage: req.CustomerMessage,
	}
	if err := s.repo.Create(d); err != nil {
		// Release the flag so the transaction does not stay permanently
		// undisputable with no dispute behind it.
		if clearErr := s.txRepo.ClearDisputeFlag(tx.ID); clearErr != nil {
			log.Printf("failed to release dispute flag for transaction %d: %v", tx.ID, clearErr)
		}
		return nil, fmt.Errorf("create dispute: %w", err)
	}

	s.rec.DisputeOpened(req.Reason)
	s.publishEvent(events.DisputeOpened, d, "")

	if s.mailer != nil {
		if merchant, err := s.merchants.FindByID(tx.MerchantID); err == nil {
			s.mailer.DisputeOpened(merchant, d)
		}
	}
	return d, nil
}

// Respond records the merchant's evidence and moves the dispute to
// under_review. Valid only while the dispute is open.
func (s *Service) Respond(ctx context.Context, merchantID, disputeID uint, req RespondRequest, meta AuditMeta) (*models.Dispute, error) {
	if req.MerchantResponse == "" {
		return nil, domainerrors.ErrMissingResponse
	}

	d, err := s.repo.FindByID(disputeID)
	if err != nil {
		return nil, err
	}
	if d.MerchantID != merchantID {
		return nil, domainerrors.ErrDisputeNotFound
	}
	if d.Closed() {
		return nil, domainerrors.ErrDisputeClosed
	}

	ok, err := s.repo.MarkUnderReview(disputeID, req.MerchantResponse, req.Evidence)
	if err != nil {
		return nil, fmt.Errorf("update dispute: %w", err)
	}
	if !ok {
		return nil, domainerrors.ErrDisputeClosed
	}
	d.Status = models.DisputeUnderReview
	d.MerchantResponse = req.MerchantResponse
	d.Evidence = req.Evidence

	s.auditLog(merchantID, models.AuditDisputeResponse,
		fmt.Sprintf("Merchant responded to dispute %d for order %s", disputeID, d.OrderID), meta)
	return d, nil
}

// Resolve closes a dispute as won (merchant) or lost (customer). On a
// customer win the resolution event is handed to the refund handler; the
// handler's outcome is not part of the admin's response, keeping resolution
// idempotent from the admin's perspective.
func (s *Service) Resolve(ctx context.Context, disputeID uint, req ResolveRequest) (*models.Dispute, error) {
	if req.Decision != models.DecisionMerchant && req.Decision != models.DecisionCustomer {
		return nil, domainerrors.ErrInvalidDecision
	}

	d, err := s.repo.FindByID(disputeID)
	if err != nil {
		return nil, err
	}
	if d.Closed() {
		return nil, domainerrors.ErrDisputeResolved
	}

	status := models.DisputeLost
	if req.Decision == models.DecisionMerchant {
		status = models.DisputeWon
	}
	now := time.Now()
	resolution := models.Resolution{
		Decision:   req.Decision,
		ResolvedBy: req.ResolvedBy,
		ResolvedAt: &now,
		Notes:      req.Notes,
	}

	ok, err := s.repo.Resolve(disputeID, status, resolution)
	if err != nil {
		return nil, fmt.Errorf("resolve dispute: %w", err)
	}
	if !ok {
		return nil, domainerrors.ErrDisputeResolved
	}
	d.Status = status
	d.Resolution = &resolution

	s.rec.DisputeResolved(req.Decision)
	s.auditLog(d.MerchantID, models.AuditDisputeResolved,
		fmt.Sprintf("Dispute %d for order %s resolved in favor of %s", disputeID, d.OrderID, req.Decision), AuditMeta{})

	event := s.publishEvent(events.DisputeResolved, d, req.Decision)
	if s.handler != nil {
		s.handler.HandleDisputeResolved(ctx, event)
	}
	return d, nil
}

// ListForMerchant returns a merchant's disputes, optionally filtered.
func (s *Service) ListForMerchant(merchantID uint, status string, limit int) ([]models.Dispute, error) {
	return s.repo.FindByMerchant(merchantID, status, limit)
}

// ListAll returns disputes across merchants for the admin panel.
func (s *Service) ListAll(status string, limit int) ([]models.Dispute, error) {
	return s.repo.FindAll(status, limit)
}

// AuditMeta carries request metadata into the audit log.
type AuditMeta struct {
	IPAddress string
	UserAgent string
}

func (s *Service) auditLog(merchantID uint, action, details string, meta AuditMeta) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		MerchantID: merchantID,
		Action:     action,
		Details:    details,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}
	if err := s.audit.Create(entry); err != nil {
		log.Printf("failed to write audit log: %v", err)
	}
}

func (s *Service) publishEvent(eventType string, d *models.Dispute, decision string) events.DisputeEvent {
	event := events.DisputeEvent{
		Type:       eventType,
		DisputeID:  d.ID,
		OrderID:    d.OrderID,
		MerchantID: d.MerchantID,
		Status:     d.Status,
		Reason:     d.Reason,
		Decision:   decision,
		Amount:     d.Amount,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishDispute(event); err != nil {
		log.Printf("failed to publish dispute event for %s: %v", d.OrderID, err)
	}
	return event
}

package repositories

import (
	"errors"
	"time"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"

	"gorm.io/gorm"
)

// DisputeRepository is the persistence contract for the dispute ledger.
// Respond and Resolve are compare-and-set writes guarded on the current
// status, mirroring the transaction repository.
type DisputeRepository interface {
	Create(d *models.Dispute) error
	FindByID(id uint) (*models.Dispute, error)
	FindByMerchant(merchantID uint, status string, limit int) ([]models.Dispute, error)
	FindAll(status string, limit int) ([]models.Dispute, error)
	MarkUnderReview(id uint, response string, evidence *models.Evidence) (bool, error)
	Resolve(id uint, status string, resolution models.Resolution) (bool, error)
}

type disputeRepository struct {
	db *gorm.DB
}

// NewDisputeRepository creates a gorm-backed dispute repository.
func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(d *models.Dispute) error {
	return r.db.Create(d).Error
}

func (r *disputeRepository) FindByID(id uint) (*models.Dispute, error) {
	var d models.Dispute
	if err := r.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrDisputeNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *disputeRepository) FindByMerchant(merchantID uint, status string, limit int) ([]models.Dispute, error) {
	q := r.db.Where("merchant_id = ?", merchantID).Order("created_at DESC")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var disputes []models.Dispute
	err := q.Find(&disputes).Error
	return disputes, err
}

func (r *disputeRepository) FindAll(status string, limit int) ([]models.Dispute, error) {
	q := r.db.Order("created_at DESC")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var disputes []models.Dispute
	err := q.Find(&disputes).Error
	return disputes, err
}

// MarkUnderReview records the merchant response and moves the dispute to
// under_review. Returns false when the dispute was not open.
func (r *disputeRepository) MarkUnderReview(id uint, response string, evidence *models.Evidence) (bool, error) {
	values := map[string]interface{}{
		"status":            models.DisputeUnderReview,
		"merchant_response": response,
	}
	if evidence != nil {
		values["evidence_description"] = evidence.Description
		values["evidence_documents"] = evidence.Documents
		values["evidence_shipping_tracking"] = evidence.ShippingTracking
		values["evidence_refund_policy"] = evidence.RefundPolicy
	}
	res := r.db.Model(&models.Dispute{}).
		Where("id = ? AND status = ?", id, models.DisputeOpen).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Resolve closes the dispute with the given terminal status and resolution
// record. Returns false when the dispute was already closed.
func (r *disputeRepository) Resolve(id uint, status string, resolution models.Resolution) (bool, error) {
	resolvedAt := resolution.ResolvedAt
	if resolvedAt == nil {
		now := time.Now()
		resolvedAt = &now
	}
	res := r.db.Model(&models.Dispute{}).
		Where("id = ? AND status IN ?", id, []string{models.DisputeOpen, models.DisputeUnderReview}).
		Updates(map[string]interface{}{
			"status":                 status,
			"resolution_decision":    resolution.Decision,
			"resolution_resolved_by": resolution.ResolvedBy,
			"resolution_resolved_at": resolvedAt,
			"resolution_notes":       resolution.Notes,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

package repositories

import (
	"zeropay/internal/models"

	"gorm.io/gorm"
)

// AuditLogRepository appends and lists merchant audit entries.
type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	FindByMerchant(merchantID uint, limit int) ([]models.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a gorm-backed audit log repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditLogRepository) FindByMerchant(merchantID uint, limit int) ([]models.AuditLog, error) {
	q := r.db.Where("merchant_id = ?", merchantID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var entries []models.AuditLog
	err := q.Find(&entries).Error
	return entries, err
}

package repositories

import (
	"errors"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"

	"gorm.io/gorm"
)

// TransactionUpdate carries the fields written alongside a status change.
type TransactionUpdate map[string]interface{}

// TransactionRepository is the persistence contract for the payment ledger.
// Status transitions go through UpdateStatusIf, a compare-and-set on the
// current status, so concurrent requests cannot both win a transition.
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	FindByID(id uint) (*models.Transaction, error)
	FindByOrderID(orderID string) (*models.Transaction, error)
	FindByMerchant(merchantID uint, status string, limit int) ([]models.Transaction, error)
	UpdateStatusIf(orderID, fromStatus, toStatus string, updates TransactionUpdate) (bool, error)
	SetDisputeFlag(id uint) (bool, error)
	ClearDisputeFlag(id uint) error
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a gorm-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *transactionRepository) FindByID(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindByOrderID(orderID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindByMerchant(merchantID uint, status string, limit int) ([]models.Transaction, error) {
	q := r.db.Where("merchant_id = ?", merchantID).Order("created_at DESC")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var txs []models.Transaction
	err := q.Find(&txs).Error
	return txs, err
}

// UpdateStatusIf atomically moves a transaction from fromStatus to toStatus,
// applying any extra updates in the same statement. Returns false when the
// transaction was no longer in fromStatus, without touching the row.
func (r *transactionRepository) UpdateStatusIf(orderID, fromStatus, toStatus string, updates TransactionUpdate) (bool, error) {
	values := map[string]interface{}{"status": toStatus}
	for k, v := range updates {
		values[k] = v
	}
	res := r.db.Model(&models.Transaction{}).
		Where("order_id = ? AND status = ?", orderID, fromStatus).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetDisputeFlag marks the transaction as disputed. Returns false when the
// flag was already set, which callers treat as a duplicate dispute.
func (r *transactionRepository) SetDisputeFlag(id uint) (bool, error) {
	res := r.db.Model(&models.Transaction{}).
		Where("id = ? AND has_dispute = ?", id, false).
		Update("has_dispute", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClearDisputeFlag releases a claimed dispute flag. Used to compensate when
// the dispute row could not be created after the flag was set.
func (r *transactionRepository) ClearDisputeFlag(id uint) error {
	return r.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("has_dispute", false).Error
}

package repositories

import (
	"errors"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository is the narrow merchant directory contract the core
// depends on: lookup by id, by email for login, by secret key for API
// authentication.
type MerchantRepository interface {
	Create(m *models.Merchant) error
	FindByID(id uint) (*models.Merchant, error)
	FindByEmail(email string) (*models.Merchant, error)
	FindBySecretKey(key string) (*models.Merchant, error)
	UpdateKeys(id uint, publicKey, secretKey string) error
	UpdateSandboxMode(id uint, sandbox bool) error
}

type merchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a gorm-backed merchant repository.
func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(m *models.Merchant) error {
	return r.db.Create(m).Error
}

func (r *merchantRepository) FindByID(id uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *merchantRepository) FindByEmail(email string) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *merchantRepository) FindBySecretKey(key string) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.Where("secret_key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *merchantRepository) UpdateKeys(id uint, publicKey, secretKey string) error {
	return r.db.Model(&models.Merchant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"public_key": publicKey,
			"secret_key": secretKey,
		}).Error
}

func (r *merchantRepository) UpdateSandboxMode(id uint, sandbox bool) error {
	res := r.db.Model(&models.Merchant{}).
		Where("id = ?", id).
		Update("sandbox_mode", sandbox)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrMerchantNotFound
	}
	return nil
}

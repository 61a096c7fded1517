// Package auth handles merchant signup, login and API key management.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"
	"zeropay/internal/repositories"
	"zeropay/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// KeyCache drops a cached secret-key lookup when the key rotates.
type KeyCache interface {
	InvalidateMerchantKey(ctx context.Context, secretKey string) error
}

// Service issues dashboard sessions and manages merchant credentials.
type Service struct {
	merchants repositories.MerchantRepository
	keyCache  KeyCache
	audit     repositories.AuditLogRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewService creates the auth service. keyCache and audit may be nil.
func NewService(merchants repositories.MerchantRepository, keyCache KeyCache, audit repositories.AuditLogRepository, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		merchants: merchants,
		keyCache:  keyCache,
		audit:     audit,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a merchant account with a fresh key pair.
func (s *Service) Register(name, email, password string) (*models.Merchant, error) {
	v := validation.New()
	v.Required("name", name)
	v.Email("email", email)
	v.Check(len(password) >= 8, "password", "must be at least 8 characters")
	if !v.Valid() {
		return nil, domainerrors.Validationf("INVALID_SIGNUP", "invalid signup details")
	}

	if _, err := s.merchants.FindByEmail(email); err == nil {
		return nil, domainerrors.ErrEmailTaken
	} else if !errors.Is(err, domainerrors.ErrMerchantNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	merchant := &models.Merchant{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		PublicKey:    models.NewPublicKey(),
		SecretKey:    models.NewSecretKey(),
		SandboxMode:  true,
	}
	if err := s.merchants.Create(merchant); err != nil {
		return nil, fmt.Errorf("create merchant: %w", err)
	}
	return merchant, nil
}

// Login verifies credentials and returns a signed session token.
func (s *Service) Login(email, password string) (string, *models.Merchant, error) {
	merchant, err := s.merchants.FindByEmail(email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrMerchantNotFound) {
			return "", nil, domainerrors.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(password)) != nil {
		return "", nil, domainerrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(merchant)
	if err != nil {
		return "", nil, err
	}
	return token, merchant, nil
}

// RegenerateKeys rotates a merchant's key pair, invalidating the old secret.
func (s *Service) RegenerateKeys(merchantID uint, ip, userAgent string) (*models.Merchant, error) {
	merchant, err := s.merchants.FindByID(merchantID)
	if err != nil {
		return nil, err
	}
	oldSecret := merchant.SecretKey
	merchant.PublicKey = models.NewPublicKey()
	merchant.SecretKey = models.NewSecretKey()
	if err := s.merchants.UpdateKeys(merchant.ID, merchant.PublicKey, merchant.SecretKey); err != nil {
		return nil, fmt.Errorf("rotate keys: %w", err)
	}
	// The old secret must stop authenticating immediately, not at cache TTL.
	if s.keyCache != nil && oldSecret != "" {
		if err := s.keyCache.InvalidateMerchantKey(context.Background(), oldSecret); err != nil {
			log.Printf("failed to invalidate rotated key: %v", err)
		}
	}
	if s.audit != nil {
		entry := &models.AuditLog{
			MerchantID: merchant.ID,
			Action:     models.AuditKeysRegenerated,
			Details:    "Merchant API keys rotated",
			IPAddress:  ip,
			UserAgent:  userAgent,
		}
		if err := s.audit.Create(entry); err != nil {
			log.Printf("failed to write audit log: %v", err)
		}
	}
	return merchant, nil
}

// ToggleSandbox flips the merchant between sandbox and live mode. New
// transactions pick up the mode at creation; existing ones keep theirs.
func (s *Service) ToggleSandbox(merchantID uint) (*models.Merchant, error) {
	merchant, err := s.merchants.FindByID(merchantID)
	if err != nil {
		return nil, err
	}
	merchant.SandboxMode = !merchant.SandboxMode
	if err := s.merchants.UpdateSandboxMode(merchant.ID, merchant.SandboxMode); err != nil {
		return nil, fmt.Errorf("toggle sandbox mode: %w", err)
	}
	// The API-key cache holds the merchant record, mode included.
	if s.keyCache != nil {
		if err := s.keyCache.InvalidateMerchantKey(context.Background(), merchant.SecretKey); err != nil {
			log.Printf("failed to invalidate merchant key cache: %v", err)
		}
	}
	return merchant, nil
}

// ParseToken validates a session token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*models.MerchantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.MerchantClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*models.MerchantClaims)
	if !ok {
		return nil, domainerrors.ErrInvalidCredentials
	}
	return claims, nil
}

func (s *Service) issueToken(merchant *models.Merchant) (string, error) {
	now := time.Now()
	claims := &models.MerchantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		MerchantID: merchant.ID,
		Email:      merchant.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockMerchantRepo struct {
	mock.Mock
}

func (m *MockMerchantRepo) Create(merchant *models.Merchant) error {
	args := m.Called(merchant)
	return args.Error(0)
}

func (m *MockMerchantRepo) FindByID(id uint) (*models.Merchant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) FindByEmail(email string) (*models.Merchant, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) FindBySecretKey(key string) (*models.Merchant, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) UpdateKeys(id uint, publicKey, secretKey string) error {
	args := m.Called(id, publicKey, secretKey)
	return args.Error(0)
}

func (m *MockMerchantRepo) UpdateSandboxMode(id uint, sandbox bool) error {
	args := m.Called(id, sandbox)
	return args.Error(0)
}

type recordingKeyCache struct {
	invalidated []string
}

func (c *recordingKeyCache) InvalidateMerchantKey(_ context.Context, secretKey string) error {
	c.invalidated = append(c.invalidated, secretKey)
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("creates a sandbox merchant with a key pair", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByEmail", "shop@example.com").Return(nil, domainerrors.ErrMerchantNotFound)
		repo.On("Create", mock.AnythingOfType("*models.Merchant")).Return(nil)

		svc := NewService(repo, nil, nil, "test-secret", time.Hour)
		merchant, err := svc.Register("Test Shop", "shop@example.com", "hunter2hunter2")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(merchant.PublicKey, "pk_test_"))
		assert.True(t, strings.HasPrefix(merchant.SecretKey, "sk_test_"))
		assert.True(t, merchant.SandboxMode)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte("hunter2hunter2")))
		repo.AssertExpectations(t)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByEmail", "shop@example.com").Return(&models.Merchant{ID: 1}, nil)

		svc := NewService(repo, nil, nil, "test-secret", time.Hour)
		_, err := svc.Register("Test Shop", "shop@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		svc := NewService(new(MockMerchantRepo), nil, nil, "test-secret", time.Hour)
		_, err := svc.Register("Test Shop", "shop@example.com", "short")
		assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))
	})
}

func TestLoginAndParseToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	merchant := &models.Merchant{ID: 42, Email: "shop@example.com", PasswordHash: string(hash)}

	t.Run("valid credentials issue a parseable session", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByEmail", "shop@example.com").Return(merchant, nil)

		svc := NewService(repo, nil, nil, "test-secret", time.Hour)
		token, got, err := svc.Login("shop@example.com", "hunter2hunter2")

		require.NoError(t, err)
		assert.Equal(t, merchant.ID, got.ID)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.MerchantID)
		assert.Equal(t, "shop@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByEmail", "shop@example.com").Return(merchant, nil)

		svc := NewService(repo, nil, nil, "test-secret", time.Hour)
		_, _, err := svc.Login("shop@example.com", "wrong")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByEmail", "ghost@example.com").Return(nil, domainerrors.ErrMerchantNotFound)

		svc := NewService(repo, nil, nil, "test-secret", time.Hour)
		_, _, err := svc.Login("ghost@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByEmail", "shop@example.com").Return(merchant, nil)

		svc := NewService(repo, nil, nil, "test-secret", time.Millisecond)
		token, _, err := svc.Login("shop@example.com", "hunter2hunter2")
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByEmail", "shop@example.com").Return(merchant, nil)

		issuer := NewService(repo, nil, nil, "other-secret", time.Hour)
		token, _, err := issuer.Login("shop@example.com", "hunter2hunter2")
		require.NoError(t, err)

		verifier := NewService(repo, nil, nil, "test-secret", time.Hour)
		_, err = verifier.ParseToken(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})
}

func TestToggleSandbox(t *testing.T) {
	t.Run("flips the mode and invalidates the cached key", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		keyCache := &recordingKeyCache{}
		merchant := &models.Merchant{ID: 42, SecretKey: "sk_test_abc", SandboxMode: true}
		repo.On("FindByID", uint(42)).Return(merchant, nil)
		repo.On("UpdateSandboxMode", uint(42), false).Return(nil)

		svc := NewService(repo, keyCache, nil, "test-secret", time.Hour)
		got, err := svc.ToggleSandbox(42)

		require.NoError(t, err)
		assert.False(t, got.SandboxMode)
		assert.Equal(t, []string{"sk_test_abc"}, keyCache.invalidated)
		repo.AssertExpectations(t)
	})

	t.Run("unknown merchant", func(t *testing.T) {
		repo := new(MockMerchantRepo)
		repo.On("FindByID", uint(9)).Return(nil, domainerrors.ErrMerchantNotFound)

		svc := NewService(repo, nil, nil, "test-secret", time.Hour)
		_, err := svc.ToggleSandbox(9)
		assert.ErrorIs(t, err, domainerrors.ErrMerchantNotFound)
	})
}

func TestRegenerateKeys(t *testing.T) {
	repo := new(MockMerchantRepo)
	merchant := &models.Merchant{ID: 42, PublicKey: models.NewPublicKey(), SecretKey: models.NewSecretKey()}
	oldSecret := merchant.SecretKey
	repo.On("FindByID", uint(42)).Return(merchant, nil)
	repo.On("UpdateKeys", uint(42), mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	svc := NewService(repo, nil, nil, "test-secret", time.Hour)
	got, err := svc.RegenerateKeys(42, "10.0.0.1", "test")

	require.NoError(t, err)
	assert.NotEqual(t, oldSecret, got.SecretKey)
	assert.True(t, strings.HasPrefix(got.SecretKey, "sk_test_"))
	repo.AssertExpectations(t)
}

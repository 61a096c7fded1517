// Package cache wraps redis behind the small read-through interface the
// repositories use for hot lookups: transactions by order reference and
// merchants by secret key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zeropay/internal/models"

	"github.com/redis/go-redis/v9"
)

// Service is the redis-backed cache used by the lookup paths.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService creates a cache service with a default TTL.
func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, ttl: defaultTTL}
}

func (s *Service) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *Service) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return true, nil
}

// CacheTransaction stores a transaction under its order reference.
func (s *Service) CacheTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.set(ctx, transactionKey(tx.OrderID), tx)
}

// GetTransaction returns a cached transaction, or found=false on a miss.
func (s *Service) GetTransaction(ctx context.Context, orderID string) (*models.Transaction, bool, error) {
	var tx models.Transaction
	found, err := s.get(ctx, transactionKey(orderID), &tx)
	if err != nil || !found {
		return nil, false, err
	}
	return &tx, true, nil
}

// InvalidateTransaction drops a transaction from the cache. Called after
// every status transition so readers never see a stale status.
func (s *Service) InvalidateTransaction(ctx context.Context, orderID string) error {
	return s.client.Del(ctx, transactionKey(orderID)).Err()
}

// CacheMerchantKey stores a merchant under its secret key for the API-key
// authentication path.
func (s *Service) CacheMerchantKey(ctx context.Context, m *models.Merchant) error {
	return s.set(ctx, merchantKeyKey(m.SecretKey), m)
}

// GetMerchantByKey returns a cached merchant, or found=false on a miss.
func (s *Service) GetMerchantByKey(ctx context.Context, secretKey string) (*models.Merchant, bool, error) {
	var m models.Merchant
	found, err := s.get(ctx, merchantKeyKey(secretKey), &m)
	if err != nil || !found {
		return nil, false, err
	}
	return &m, true, nil
}

// InvalidateMerchantKey drops a merchant key entry, used on key rotation.
func (s *Service) InvalidateMerchantKey(ctx context.Context, secretKey string) error {
	return s.client.Del(ctx, merchantKeyKey(secretKey)).Err()
}

// HealthCheck pings redis.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}

func transactionKey(orderID string) string {
	return "transaction:order:" + orderID
}

func merchantKeyKey(secretKey string) string {
	return "merchant:key:" + secretKey
}

// Package middleware provides request authentication for the three caller
// populations: merchant dashboard sessions (JWT), merchant servers (secret
// API key) and the admin panel (static token).
package middleware

import (
	"context"
	"log"
	"strings"

	domainerrors "zeropay/internal/errors"
	"zeropay/internal/models"
	"zeropay/internal/repositories"
	"zeropay/internal/repositories/cache"
	"zeropay/internal/services/auth"
	"zeropay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// SessionAuth validates the Bearer JWT of a dashboard session and stores
// the claims in the request context.
type SessionAuth struct {
	authService *auth.Service
}

func NewSessionAuth(authService *auth.Service) *SessionAuth {
	return &SessionAuth{authService: authService}
}

func (m *SessionAuth) Handler(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return response.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}
	claims, err := m.authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return response.Unauthorized(c, "invalid token")
	}
	c.Locals("claims", claims)
	return c.Next()
}

// Claims extracts the session claims stored by SessionAuth.
func Claims(c *fiber.Ctx) *models.MerchantClaims {
	claims, _ := c.Locals("claims").(*models.MerchantClaims)
	return claims
}

// APIKeyAuth resolves the merchant from the X-Api-Key secret key header for
// server-to-server payment routes. Lookups go through the cache first.
type APIKeyAuth struct {
	merchants repositories.MerchantRepository
	cache     *cache.Service
}

func NewAPIKeyAuth(merchants repositories.MerchantRepository, cacheService *cache.Service) *APIKeyAuth {
	return &APIKeyAuth{merchants: merchants, cache: cacheService}
}

func (m *APIKeyAuth) Handler(c *fiber.Ctx) error {
	key := c.Get("X-Api-Key")
	if key == "" {
		return response.Unauthorized(c, "missing API key")
	}
	merchant, err := m.lookup(c.Context(), key)
	if err != nil {
		return response.DomainError(c, domainerrors.ErrInvalidAPIKey)
	}
	c.Locals("merchant", merchant)
	return c.Next()
}

func (m *APIKeyAuth) lookup(ctx context.Context, key string) (*models.Merchant, error) {
	if m.cache != nil {
		if merchant, found, err := m.cache.GetMerchantByKey(ctx, key); err == nil && found {
			return merchant, nil
		}
	}
	merchant, err := m.merchants.FindBySecretKey(key)
	if err != nil {
		return nil, err
	}
	if m.cache != nil {
		if err := m.cache.CacheMerchantKey(ctx, merchant); err != nil {
			log.Printf("failed to cache merchant key: %v", err)
		}
	}
	return merchant, nil
}

// Merchant extracts the merchant stored by APIKeyAuth.
func Merchant(c *fiber.Ctx) *models.Merchant {
	merchant, _ := c.Locals("merchant").(*models.Merchant)
	return merchant
}

// AdminAuth guards the admin routes with a static token. Admin session
// management is out of scope; this only fences the oversight endpoints.
type AdminAuth struct {
	token string
}

func NewAdminAuth(token string) *AdminAuth {
	return &AdminAuth{token: token}
}

func (m *AdminAuth) Handler(c *fiber.Ctx) error {
	if m.token == "" || c.Get("X-Admin-Token") != m.token {
		return response.Unauthorized(c, "admin access required")
	}
	return c.Next()
}

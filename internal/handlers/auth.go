package handlers

import (
	"zeropay/internal/middleware"
	"zeropay/internal/repositories"
	"zeropay/internal/services/auth"
	"zeropay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes merchant signup, login, key management and the
// account's audit trail.
type AuthHandler struct {
	authService *auth.Service
	audit       repositories.AuditLogRepository
}

func NewAuthHandler(authService *auth.Service, audit repositories.AuditLogRepository) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

// Signup creates a merchant account and returns the generated keys.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	merchant, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "Merchant registered successfully", fiber.Map{
		"merchant":  merchant,
		"secretKey": merchant.SecretKey,
	})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	token, merchant, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Login successful", fiber.Map{
		"token":    token,
		"merchant": merchant,
	})
}

// RegenerateKeys rotates the merchant's API keys.
func (h *AuthHandler) RegenerateKeys(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	merchant, err := h.authService.RegenerateKeys(claims.MerchantID, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "API keys regenerated", fiber.Map{
		"publicKey": merchant.PublicKey,
		"secretKey": merchant.SecretKey,
	})
}

// ToggleSandbox switches the merchant between sandbox and live mode.
func (h *AuthHandler) ToggleSandbox(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	merchant, err := h.authService.ToggleSandbox(claims.MerchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Sandbox mode updated", fiber.Map{
		"sandboxMode": merchant.SandboxMode,
	})
}

// AuditLogs returns the merchant's recent audit entries, newest first.
func (h *AuthHandler) AuditLogs(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	entries, err := h.audit.FindByMerchant(claims.MerchantID, c.QueryInt("limit", 100))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Audit logs retrieved", entries)
}

package handlers

import (
	"zeropay/internal/middleware"
	"zeropay/internal/services/webhook"
	"zeropay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler manages a merchant's webhook registrations.
type WebhookHandler struct {
	webhooks *webhook.Service
}

func NewWebhookHandler(webhooks *webhook.Service) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// List returns the merchant's registrations.
func (h *WebhookHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	hooks, err := h.webhooks.List(claims.MerchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Webhooks retrieved", hooks)
}

// Create registers a new endpoint with a fresh signing secret.
func (h *WebhookHandler) Create(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	var req struct {
		URL    string   `json:"url"`
		Events []string `json:"events"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	hook, err := h.webhooks.Register(claims.MerchantID, req.URL, req.Events)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "Webhook created successfully", hook)
}

// Delete removes one of the merchant's registrations.
func (h *WebhookHandler) Delete(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	webhookID, err := c.ParamsInt("id")
	if err != nil || webhookID <= 0 {
		return response.BadRequest(c, "Invalid webhook ID")
	}

	if err := h.webhooks.Delete(claims.MerchantID, uint(webhookID)); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Webhook deleted", nil)
}

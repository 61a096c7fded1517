package handlers

import (
	"zeropay/internal/middleware"
	"zeropay/internal/models"
	"zeropay/internal/services/payment"
	"zeropay/internal/utils/response"
	"zeropay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler exposes the payment lifecycle over HTTP.
type PaymentHandler struct {
	payments payment.Service
}

func NewPaymentHandler(payments payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create opens a pending payment order. Authenticated by API key.
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	merchant := middleware.Merchant(c)
	if merchant == nil {
		return response.Unauthorized(c, "merchant not resolved")
	}

	var req payment.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Positive("amount", req.Amount)
	v.OneOf("method", req.Method, models.MethodCard, models.MethodUPI, models.MethodWallet, models.MethodNetbanking)
	v.Email("customerEmail", req.CustomerEmail)
	if !v.Valid() {
		return response.ValidationErrors(c, v.Errors)
	}

	tx, err := h.payments.Create(c.Context(), merchant.ID, req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Payment order created successfully", fiber.Map{
		"orderId":       tx.OrderID,
		"status":        tx.Status,
		"amount":        tx.Amount,
		"customerEmail": tx.CustomerEmail,
	})
}

// Verify settles a pending payment. Called by the checkout page, so the
// response must not wait on webhook delivery.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if req.OrderID == "" {
		return response.BadRequest(c, "orderId is required")
	}

	tx, err := h.payments.Verify(c.Context(), req.OrderID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  tx.Status,
		"orderId": tx.OrderID,
	})
}

// Refund refunds a successful payment, in full or in part.
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	var req payment.RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if req.OrderID == "" {
		return response.BadRequest(c, "orderId is required")
	}

	// A merchant may only refund their own transactions.
	tx, err := h.payments.GetByOrderID(c.Context(), req.OrderID)
	if err != nil {
		return response.DomainError(c, err)
	}
	if tx.MerchantID != claims.MerchantID {
		return response.NotFound(c, "transaction not found")
	}

	req.Origin = payment.RefundOriginMerchant
	refunded, err := h.payments.Refund(c.Context(), req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Refund processed", fiber.Map{
		"orderId":        refunded.OrderID,
		"refundedAmount": refunded.RefundedAmount,
		"refundReason":   refunded.RefundReason,
	})
}

// Status returns the current state of one of the merchant's orders.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	tx, err := h.payments.GetByOrderID(c.Context(), c.Params("orderId"))
	if err != nil {
		return response.DomainError(c, err)
	}
	if tx.MerchantID != claims.MerchantID {
		return response.NotFound(c, "transaction not found")
	}

	return response.Success(c, "Transaction retrieved", tx)
}

// List returns the merchant's transactions, newest first.
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	status := c.Query("status", "all")
	limit := c.QueryInt("limit", 100)

	txs, err := h.payments.List(c.Context(), claims.MerchantID, status, limit)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Transactions retrieved", txs)
}

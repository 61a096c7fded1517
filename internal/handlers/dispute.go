package handlers

import (
	"zeropay/internal/middleware"
	"zeropay/internal/services/dispute"
	"zeropay/internal/utils/response"
	"zeropay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// DisputeHandler exposes the merchant-facing dispute flow.
type DisputeHandler struct {
	disputes *dispute.Service
}

func NewDisputeHandler(disputes *dispute.Service) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

// Open files a dispute against one of the merchant's transactions. The
// dashboard uses this to simulate the customer-side action.
func (h *DisputeHandler) Open(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	var req dispute.OpenRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Required("customerMessage", req.CustomerMessage)
	v.MaxLength("customerMessage", req.CustomerMessage, 1000)
	if !v.Valid() {
		return response.ValidationErrors(c, v.Errors)
	}

	d, err := h.disputes.Open(c.Context(), claims.MerchantID, req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "Dispute created successfully", d)
}

// List returns the merchant's disputes, optionally filtered by status.
func (h *DisputeHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	disputes, err := h.disputes.ListForMerchant(claims.MerchantID, c.Query("status", "all"), 100)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Disputes retrieved", disputes)
}

// Respond submits the merchant's evidence for an open dispute.
func (h *DisputeHandler) Respond(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return response.Unauthorized(c, "session required")
	}

	disputeID, err := c.ParamsInt("id")
	if err != nil || disputeID <= 0 {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	var req dispute.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	meta := dispute.AuditMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
	d, err := h.disputes.Respond(c.Context(), claims.MerchantID, uint(disputeID), req, meta)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Response submitted successfully", d)
}

package handlers

import (
	"zeropay/internal/services/dispute"
	"zeropay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the oversight endpoints guarded by AdminAuth.
type AdminHandler struct {
	disputes   *dispute.Service
	resolvedBy string
}

func NewAdminHandler(disputes *dispute.Service, resolvedBy string) *AdminHandler {
	return &AdminHandler{disputes: disputes, resolvedBy: resolvedBy}
}

// ListDisputes returns disputes across all merchants.
func (h *AdminHandler) ListDisputes(c *fiber.Ctx) error {
	disputes, err := h.disputes.ListAll(c.Query("status", "all"), 100)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Disputes retrieved", disputes)
}

// ResolveDispute closes a dispute with an admin decision. A customer win
// triggers the automatic refund behind the scenes; its outcome does not
// change this response.
func (h *AdminHandler) ResolveDispute(c *fiber.Ctx) error {
	disputeID, err := c.ParamsInt("id")
	if err != nil || disputeID <= 0 {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	var req dispute.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	req.ResolvedBy = h.resolvedBy

	d, err := h.disputes.Resolve(c.Context(), uint(disputeID), req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Dispute resolved in favor of "+req.Decision, d)
}

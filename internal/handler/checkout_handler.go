package handler

import (
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const idempotencyHeader = "Idempotency-Key"

type CheckoutHandler struct {
	checkout service.CheckoutService
	history  service.HistoryService
}

func NewCheckoutHandler(checkout service.CheckoutService, history service.HistoryService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, history: history}
}

// Checkout sells a cart and answers with the receipt.
// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		var req service.CheckoutRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid JSON")
		}
		req.IdempotencyKey = c.Get(idempotencyHeader)

		receipt, err := h.checkout.Checkout(c.UserContext(), session, req)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, receipt)
	})
}

// GET /api/v1/history
func (h *CheckoutHandler) GetHistory(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		receipts, err := h.history.List(c.UserContext(), session.UserID)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, receipts)
	})
}

// GET /api/v1/history/:id
func (h *CheckoutHandler) GetReceipt(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		receipt, err := h.history.Get(c.UserContext(), session.UserID, c.Params("id"))
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, receipt)
	})
}

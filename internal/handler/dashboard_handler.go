package handler

import (
	"strconv"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSummary returns stock and sales figures for the caller
// Query params: days (default 7)
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		days, err := strconv.Atoi(c.Query("days", "7"))
		if err != nil || days <= 0 {
			days = 7
		}

		summary, err := h.service.GetSummary(c.UserContext(), session.UserID, days)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, summary)
	})
}

package handler

import (
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	activity  service.ActivityService
	incidents service.IncidentService
}

func NewAdminHandler(activity service.ActivityService, incidents service.IncidentService) *AdminHandler {
	return &AdminHandler{activity: activity, incidents: incidents}
}

type ResolveIncidentRequest struct {
	Note string `json:"note"`
}

// GET /api/v1/admin/activity
func (h *AdminHandler) GetActivity(c *fiber.Ctx) error {
	activities, err := h.activity.Recent(c.UserContext(), c.QueryInt("limit", 200))
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, fiber.StatusOK, activities)
}

// GET /api/v1/admin/incidents?all=true
func (h *AdminHandler) GetIncidents(c *fiber.Ctx) error {
	incidents, err := h.incidents.List(c.UserContext(), c.QueryBool("all", false))
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, fiber.StatusOK, incidents)
}

// POST /api/v1/admin/incidents/:id/resolve
func (h *AdminHandler) ResolveIncident(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		var req ResolveIncidentRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return response.BadRequest(c, "Invalid JSON")
			}
		}

		incident, err := h.incidents.Resolve(c.UserContext(), c.Params("id"), session.Username, req.Note)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, incident)
	})
}

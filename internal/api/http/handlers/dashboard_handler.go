package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/service"
)

// DashboardHandler serves the staff dashboard statistics.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Refresh POST /dashboard/refresh drops the cache so the next read
// recomputes.
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	h.dashboard.Invalidate(c.Context())
	return c.SendStatus(fiber.StatusNoContent)
}

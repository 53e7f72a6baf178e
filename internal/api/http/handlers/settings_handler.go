package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/strategy"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// SettingsHandler exposes the runtime strategy selection to admins.
type SettingsHandler struct {
	settings *strategy.Settings
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *strategy.Settings) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get GET /admin/settings/strategies.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.StrategySettingsResponse{
		PaymentStrategy:  h.settings.Payment().Name(),
		CategoryStrategy: h.settings.Category().Name(),
	}})
}

// Update PUT /admin/settings/strategies switches strategies at runtime.
// The switch applies to subsequent requests only.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateStrategySettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PaymentStrategy != "" {
		if err := h.settings.SetPaymentStrategy(req.PaymentStrategy); err != nil {
			return err
		}
	}
	if req.CategoryStrategy != "" {
		if err := h.settings.SetCategoryStrategy(req.CategoryStrategy); err != nil {
			return err
		}
	}
	return h.Get(c)
}

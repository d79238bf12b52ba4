package handlers

import (
	"github.com/fitclubhq/fitclub-backend/internal/dto"
	"github.com/fitclubhq/fitclub-backend/internal/services"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type PlanHandler struct {
	subscriptions *services.SubscriptionService
	profiles      services.ProfileStore
}

func NewPlanHandler(subscriptions *services.SubscriptionService, profiles services.ProfileStore) *PlanHandler {
	return &PlanHandler{subscriptions: subscriptions, profiles: profiles}
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	tenantID := tenant.GetTenantID(c)
	plans, err := h.subscriptions.ListPlans(c.Context(), tenantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// GetSubscription returns the caller's subscription with is_active
// recomputed from the period dates, never the stored flag.
func (h *PlanHandler) GetSubscription(c *fiber.Ctx) error {
	tenantID := tenant.GetTenantID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	profile, err := h.profiles.GetByUserID(c.Context(), tenantID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not provisioned yet",
		})
	}

	sub, err := h.subscriptions.GetForProfile(c.Context(), tenantID, profile.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if sub == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No subscription",
		})
	}

	return c.JSON(sub)
}

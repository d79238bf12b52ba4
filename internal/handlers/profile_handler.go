package handlers

import (
	"github.com/fitclubhq/fitclub-backend/internal/dto"
	"github.com/fitclubhq/fitclub-backend/internal/services"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profiles services.ProfileStore
}

func NewProfileHandler(profiles services.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the caller's own profile document.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
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

	return c.JSON(profile)
}

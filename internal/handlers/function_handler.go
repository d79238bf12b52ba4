package handlers

import (
	"context"
	"log/slog"

	"github.com/fitclubhq/fitclub-backend/internal/dto"
	"github.com/fitclubhq/fitclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Provisioner is the slice of the provisioning service the function entry
// points need.
type Provisioner interface {
	EnsureProfile(ctx context.Context, in services.ProvisionInput) (services.ProvisionResult, error)
	JoinDefaultTeam(ctx context.Context, tenantID string, userID uuid.UUID) error
}

// FunctionHandler exposes the privileged serverless-style entry points.
// Errors never escape the function boundary: every outcome is an {ok, ...}
// envelope.
type FunctionHandler struct {
	provisioner Provisioner
	tenantID    string
}

func NewFunctionHandler(provisioner Provisioner, tenantID string) *FunctionHandler {
	return &FunctionHandler{provisioner: provisioner, tenantID: tenantID}
}

func (h *FunctionHandler) CreateProfile(c *fiber.Ctx) error {
	var req dto.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return functionFail(c, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return functionFail(c, "userId must be a valid id")
	}

	result, err := h.provisioner.EnsureProfile(c.Context(), services.ProvisionInput{
		TenantID: h.tenantID,
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		slog.Error("create-profile function failed",
			"tenant_id", h.tenantID, "user_id", req.UserID, "stage", "create-profile", "error", err.Error())
		return functionFail(c, err.Error())
	}

	return c.JSON(dto.FunctionResponse{OK: true, ProfileID: result.ProfileID.String()})
}

func (h *FunctionHandler) JoinDefaultTeam(c *fiber.Ctx) error {
	var req dto.JoinDefaultTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return functionFail(c, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return functionFail(c, "userId must be a valid id")
	}

	if err := h.provisioner.JoinDefaultTeam(c.Context(), h.tenantID, userID); err != nil {
		slog.Error("join-default-team function failed",
			"tenant_id", h.tenantID, "user_id", req.UserID, "stage", "join-default-team", "error", err.Error())
		return functionFail(c, err.Error())
	}

	return c.JSON(dto.FunctionResponse{OK: true})
}

func functionFail(c *fiber.Ctx, message string) error {
	return c.JSON(dto.FunctionResponse{OK: false, Message: message})
}

package handlers

import (
	"errors"

	"github.com/fitclubhq/fitclub-backend/internal/bootstrap"
	"github.com/fitclubhq/fitclub-backend/internal/credstore"
	"github.com/fitclubhq/fitclub-backend/internal/dto"
	"github.com/fitclubhq/fitclub-backend/internal/services"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	coordinator *bootstrap.Coordinator
	authService *services.AuthService
}

func NewAuthHandler(coordinator *bootstrap.Coordinator, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{coordinator: coordinator, authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.coordinator.Register(c.Context(), deviceID(c), req.Email, req.Password, req.Name)
	if err != nil {
		return bootstrapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toBootstrapResponse(result))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.coordinator.Login(c.Context(), deviceID(c), req.Email, req.Password)
	if err != nil {
		return bootstrapError(c, err)
	}

	return c.JSON(toBootstrapResponse(result))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	tenantID := tenant.GetTenantID(c)
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	identity, tokens, err := h.authService.Refresh(c.Context(), tenantID, req.SessionToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.AuthResponse{
		AuthToken:    tokens.AuthToken,
		SessionToken: tokens.SessionToken,
		Identity: dto.IdentityResponse{
			ID:          identity.ID,
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
			Role:        identity.Role,
		},
	})
}

// Logout clears the device session. Local credentials are gone even when the
// remote sign-out failed; only a credential storage failure is an error.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.coordinator.Logout(c.Context(), deviceID(c)); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sessions := h.coordinator.SessionFor(deviceID(c))
	if identity := sessions.CurrentIdentity(); identity != nil {
		return c.JSON(toIdentityResponse(*identity))
	}

	identity, err := sessions.RefreshIdentity(c.Context())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "No active session",
		})
	}
	return c.JSON(toIdentityResponse(*identity))
}

// deviceID identifies the calling device; sessions and credentials are
// scoped to it. Falls back to the client IP for clients that don't send one.
func deviceID(c *fiber.Ctx) string {
	if id := c.Get("X-Device-ID"); id != "" {
		return id
	}
	return c.IP()
}

func bootstrapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrWeakCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, bootstrap.ErrTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, bootstrap.ErrNetwork):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: true, Message: "Upstream provider unavailable"})
	case errors.Is(err, credstore.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, tenant.ErrTenantUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
	}
}

func toBootstrapResponse(result *bootstrap.Result) dto.BootstrapResponse {
	resp := dto.BootstrapResponse{
		AuthToken:      result.Tokens.AuthToken,
		SessionToken:   result.Tokens.SessionToken,
		TenantID:       result.TenantID,
		Identity:       toIdentityResponse(result.Identity),
		ProfileCreated: result.ProfileCreated,
		PendingRepair:  result.PendingRepair,
	}
	if result.ProfileID != uuid.Nil {
		resp.ProfileID = result.ProfileID.String()
	}
	return resp
}

func toIdentityResponse(identity bootstrap.Identity) dto.IdentityResponse {
	return dto.IdentityResponse{
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
	}
}

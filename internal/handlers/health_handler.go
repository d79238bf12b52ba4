package handlers

import (
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/database"
	"github.com/fitclubhq/fitclub-backend/internal/dto"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db       *gorm.DB
	registry *tenant.Registry
}

func NewHealthHandler(db *gorm.DB, registry *tenant.Registry) *HealthHandler {
	return &HealthHandler{db: db, registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "down"
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		GymCount:  len(h.registry.All()),
	})
}

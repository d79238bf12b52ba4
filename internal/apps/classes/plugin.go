package classes

import (
	"github.com/fitclubhq/fitclub-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClassesPlugin struct{}

func New() *ClassesPlugin {
	return &ClassesPlugin{}
}

func (p *ClassesPlugin) ID() string { return "classes" }

func (p *ClassesPlugin) Models() []interface{} {
	return []interface{}{
		&Class{},
		&Booking{},
	}
}

func (p *ClassesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewClassService(db)
	handler := NewClassHandler(svc)

	router.Get("/classes", handler.ListClasses)
	router.Post("/classes/:id/book", handler.BookClass)
	router.Get("/bookings", handler.MyBookings)
	router.Delete("/bookings/:id", handler.CancelBooking)
}

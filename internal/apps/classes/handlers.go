package classes

import (
	"errors"

	"github.com/fitclubhq/fitclub-backend/internal/dto"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ClassHandler struct {
	classService *ClassService
}

func NewClassHandler(classService *ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

func (h *ClassHandler) ListClasses(c *fiber.Ctx) error {
	tenantID := tenant.GetTenantID(c)
	classes, total, err := h.classService.ListUpcoming(c.Context(), tenantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(ClassListResponse{Classes: classes, Total: total})
}

func (h *ClassHandler) BookClass(c *fiber.Ctx) error {
	tenantID := tenant.GetTenantID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid class id",
		})
	}

	booking, err := h.classService.Book(c.Context(), tenantID, classID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		case errors.Is(err, ErrAlreadyBooked):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		case errors.Is(err, ErrClassFull):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(BookingResponse{
		ID:      booking.ID.String(),
		ClassID: booking.ClassID.String(),
		Status:  booking.Status,
	})
}

func (h *ClassHandler) MyBookings(c *fiber.Ctx) error {
	tenantID := tenant.GetTenantID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	bookings, err := h.classService.MyBookings(c.Context(), tenantID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *ClassHandler) CancelBooking(c *fiber.Ctx) error {
	tenantID := tenant.GetTenantID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid booking id",
		})
	}

	if err := h.classService.Cancel(c.Context(), tenantID, bookingID, userID); err != nil {
		if errors.Is(err, ErrBookingMissing) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"message": "Booking cancelled"})
}

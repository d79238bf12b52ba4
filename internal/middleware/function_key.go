package middleware

import (
	"crypto/subtle"

	"github.com/fitclubhq/fitclub-backend/internal/config"
	"github.com/fitclubhq/fitclub-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// FunctionKeyRequired guards the privileged function entry points. Those run
// with elevated trust the client does not have, so they are reachable only
// with the externally-injected function key.
func FunctionKeyRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.FunctionKey == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Function endpoints are not configured",
			})
		}
		key := c.Get("X-Function-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.FunctionKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		return c.Next()
	}
}

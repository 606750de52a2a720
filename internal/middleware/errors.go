package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/churchlife/internal/config"
)

// ErrorHandler renders expected failures as JSON with their status code.
// Infrastructure error details are surfaced only outside production.
func ErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		} else if !cfg.IsProduction() {
			message = err.Error()
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}

package handlers

import (
	"log"

	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// fail translates a service error into a JSON body with a stable code.
// Unknown errors are storage failures and never leak their message.
func fail(c *fiber.Ctx, err error) error {
	code := services.ErrorCode(err)
	if code == "" {
		log.Printf("❌ [API] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "storage unavailable",
			"code":  "storage_unavailable",
		})
	}

	status := fiber.StatusBadRequest
	switch code {
	case "not_found":
		status = fiber.StatusNotFound
	case "forbidden":
		status = fiber.StatusForbidden
	case "already_completed", "already_registered", "already_referred", "already_processed":
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
		"code":  "bad_request",
	})
}

package handlers

import (
	"errors"

	"coin-economy-system/middleware"
	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCoinRoutes(app *fiber.App, economy *services.EconomyService, tapService *services.TapService, userService *services.UserService) {
	secured := app.Group("/api/coins", middleware.UserAuth())

	secured.Get("/balance", func(c *fiber.Ctx) error {
		user, err := userService.Get(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"coins":          user.Coins,
			"level":          user.Level,
			"experience":     user.Experience,
			"max_experience": user.MaxExperience,
		})
	})

	secured.Get("/transactions", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		txs, err := economy.Transactions(middleware.UserID(c), limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"transactions": txs})
	})

	secured.Post("/tap", func(c *fiber.Ctx) error {
		result, err := tapService.Tap(middleware.UserID(c))
		if err != nil {
			// Exhaustion still carries the reset countdown
			if errors.Is(err, services.ErrTapsExhausted) && result != nil {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error":      err.Error(),
					"code":       services.ErrorCode(err),
					"next_reset": result.NextReset,
				})
			}
			return fail(c, err)
		}
		return c.JSON(result)
	})

	secured.Get("/tap/status", func(c *fiber.Ctx) error {
		status, err := tapService.Status(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(status)
	})
}

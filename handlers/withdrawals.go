package handlers

import (
	"coin-economy-system/middleware"
	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWithdrawalRoutes(app *fiber.App, withdrawalService *services.WithdrawalService) {
	secured := app.Group("/api/withdrawals", middleware.UserAuth())

	secured.Post("/", func(c *fiber.Ctx) error {
		var body struct {
			Amount int64  `json:"amount"`
			UpiID  string `json:"upi_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "invalid body")
		}
		if body.UpiID == "" {
			return badRequest(c, "upi_id is required")
		}

		w, balance, err := withdrawalService.Request(middleware.UserID(c), body.Amount, body.UpiID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"withdrawal": w,
			"coins":      balance,
		})
	})

	secured.Get("/", func(c *fiber.Ctx) error {
		history, err := withdrawalService.History(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"withdrawals": history})
	})
}

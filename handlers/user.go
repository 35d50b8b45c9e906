package handlers

import (
	"coin-economy-system/middleware"
	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, referralService *services.ReferralService) {
	secured := app.Group("/api/users", middleware.UserAuth())

	secured.Get("/me", func(c *fiber.Ctx) error {
		profile, err := userService.Profile(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(profile)
	})

	// Late referral attribution for users who signed up without a code
	secured.Post("/me/referral", func(c *fiber.Ctx) error {
		var body struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&body); err != nil || body.Code == "" {
			return badRequest(c, "code is required")
		}

		referrer, err := referralService.Attribute(middleware.UserID(c), body.Code)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"message":  "referral applied",
			"referrer": referrer,
		})
	})

	secured.Get("/me/referrals", func(c *fiber.Ctx) error {
		referred, earned, err := referralService.Referrals(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"referrals":    referred,
			"total_earned": earned,
		})
	})
}

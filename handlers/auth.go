package handlers

import (
	"log"
	"strconv"

	"coin-economy-system/middleware"
	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, userService *services.UserService, referralService *services.ReferralService) {
	// 🔓 Telegram WebApp login: verify initData, provision on first contact
	app.Post("/api/auth/telegram", func(c *fiber.Ctx) error {
		var body struct {
			InitData     string `json:"init_data"`
			ReferralCode string `json:"referral_code"`
		}
		if err := c.BodyParser(&body); err != nil || body.InitData == "" {
			return badRequest(c, "init_data is required")
		}

		tgUser, err := middleware.VerifyInitData(body.InitData)
		if err != nil {
			log.Printf("❌ [AUTH] initData rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "telegram verification failed",
				"code":  "invalid_init_data",
			})
		}

		user, created, err := userService.Resolve(services.TelegramIdentity{
			TelegramID: strconv.FormatInt(tgUser.ID, 10),
			Username:   tgUser.Username,
			FirstName:  tgUser.FirstName,
			LastName:   tgUser.LastName,
			PhotoURL:   tgUser.PhotoURL,
		})
		if err != nil {
			return fail(c, err)
		}

		// Referral attribution is best effort on signup: a bad code must
		// not block login.
		if created && body.ReferralCode != "" {
			if _, err := referralService.Attribute(user.ID, body.ReferralCode); err != nil {
				log.Printf("⚠️  Referral code %q rejected for new user %s: %v", body.ReferralCode, user.ID, err)
			}
		}

		token, err := middleware.SignUserToken(user.ID, user.TelegramID)
		if err != nil {
			return fail(c, err)
		}

		// Referral may have updated the user row
		fresh, err := userService.Get(user.ID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"token":  token,
			"user":   fresh,
			"is_new": created,
		})
	})
}

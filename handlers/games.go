package handlers

import (
	"coin-economy-system/middleware"
	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	secured := app.Group("/api/games", middleware.UserAuth())

	secured.Get("/", func(c *fiber.Ctx) error {
		games, err := gameService.ActiveGames()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"games": games})
	})

	secured.Post("/:id/play", func(c *fiber.Ctx) error {
		var body struct {
			Score *int `json:"score"`
		}
		// Empty body means random reward, so a parse failure is only fatal
		// when a body was actually sent
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return badRequest(c, "invalid body")
			}
			if body.Score != nil && (*body.Score < 0 || *body.Score > 100) {
				return badRequest(c, "score must be between 0 and 100")
			}
		}

		result, err := gameService.Play(middleware.UserID(c), c.Params("id"), body.Score)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})
}

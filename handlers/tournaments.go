package handlers

import (
	"coin-economy-system/middleware"
	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService) {
	secured := app.Group("/api/tournaments", middleware.UserAuth())

	secured.Get("/current", func(c *fiber.Ctx) error {
		t, registered, err := tournamentService.Current(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		if t == nil {
			return c.JSON(fiber.Map{"tournament": nil, "is_registered": false})
		}
		return c.JSON(fiber.Map{
			"tournament":    t,
			"is_registered": registered,
		})
	})

	secured.Post("/:id/register", func(c *fiber.Ctx) error {
		t, balance, err := tournamentService.Register(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"tournament": t,
			"coins":      balance,
		})
	})

	secured.Post("/:id/score", func(c *fiber.Ctx) error {
		var body struct {
			Score int64 `json:"score"`
		}
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "score is required")
		}
		if body.Score < 0 {
			return badRequest(c, "score cannot be negative")
		}

		best, err := tournamentService.SubmitScore(middleware.UserID(c), c.Params("id"), body.Score)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"score": best})
	})

	secured.Get("/:id/results", func(c *fiber.Ctx) error {
		t, ranked, err := tournamentService.Results(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"tournament":  t,
			"leaderboard": ranked,
			"winners":     t.Winners,
		})
	})
}

package handlers

import (
	"coin-economy-system/middleware"
	"coin-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService) {
	secured := app.Group("/api/tasks", middleware.UserAuth())

	secured.Get("/", func(c *fiber.Ctx) error {
		tasks, err := taskService.ActiveTasks()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"tasks": tasks})
	})

	secured.Get("/completed", func(c *fiber.Ctx) error {
		tasks, err := taskService.CompletedTasks(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"tasks": tasks})
	})

	secured.Post("/:id/complete", func(c *fiber.Ctx) error {
		result, err := taskService.Complete(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})
}
